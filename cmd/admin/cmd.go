package main

import (
	"context"
	"flag"
	"fmt"
	"syscall"

	"github.com/anjiri1684/tuition_admin/database"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/term"
	"gorm.io/gorm"
)

const minPasswordLength = 8

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp             = errors.New("help provided")
	errPasswordMismatch = errors.New("passwords don't match")
	errPasswordTooShort = errors.Errorf("password must be at least %d characters", minPasswordLength)
)

type commandLine struct {
	db  *gorm.DB
	log zerolog.Logger
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate - create or update the database tables")
	fmt.Println("  createsuperuser -email EMAIL -username USERNAME [-first-name NAME] [-last-name NAME] - create an approved staff account")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createCmd := flag.NewFlagSet("createsuperuser", flag.ContinueOnError)
	email := createCmd.String("email", "", "Login email. The password will be prompted next.")
	username := createCmd.String("username", "admin", "Unique username.")
	firstName := createCmd.String("first-name", "", "First name.")
	lastName := createCmd.String("last-name", "", "Last name.")

	switch args[1] {
	case "migrate":
		if err := database.Migrate(cli.db); err != nil {
			return err
		}
		cli.log.Info().Msg("database migrated")
		return nil

	case "createsuperuser":
		if err := createCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *email == "" || *username == "" {
			createCmd.Usage()
			return errHelp
		}

		pwd, err := promptPassword()
		if err != nil {
			return err
		}

		account, err := database.CreateSuperuser(context.Background(), cli.db, database.Superuser{
			Email:     *email,
			Username:  *username,
			Password:  pwd,
			FirstName: *firstName,
			LastName:  *lastName,
		})
		if err != nil {
			return err
		}
		cli.log.Info().Str("email", account.Email).Msg("superuser created")
		return nil

	default:
		cli.printUsage()
		return errHelp
	}
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}

	fmt.Print("Password (again): ")
	again, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}

	if string(pwd) != string(again) {
		return "", errPasswordMismatch
	}
	if len(pwd) < minPasswordLength {
		return "", errPasswordTooShort
	}
	return string(pwd), nil
}
