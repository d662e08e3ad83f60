package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/anjiri1684/tuition_admin/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

//go:embed templates/receipt.html
var receiptFS embed.FS

var receiptTemplate = template.Must(template.ParseFS(receiptFS, "templates/receipt.html"))

var ErrReceiptStorageDisabled = errors.New("receipt storage is not configured")

// PDFRenderer turns an HTML document into PDF bytes.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// FileUploader stores a file and returns its public URL.
type FileUploader interface {
	Upload(ctx context.Context, data []byte, name string) (string, error)
}

type ReceiptService struct {
	db       *gorm.DB
	payments *PaymentService
	renderer PDFRenderer
	uploader FileUploader
	timeout  time.Duration
	log      zerolog.Logger
}

// NewReceiptService wires receipt rendering. uploader may be nil, in which
// case receipts can be downloaded but not published.
func NewReceiptService(db *gorm.DB, payments *PaymentService, renderer PDFRenderer, uploader FileUploader, timeout time.Duration, log zerolog.Logger) *ReceiptService {
	return &ReceiptService{db: db, payments: payments, renderer: renderer, uploader: uploader, timeout: timeout, log: log}
}

type receiptData struct {
	ReceiptNumber   string
	IssuedOn        string
	StudentName     string
	Grade           string
	Board           string
	Term            string
	Mode            string
	TransactionID   string
	TransactionDate string
	AmountDue       string
	AmountPaid      string
	Status          string
	Notes           string
}

// ReceiptHTML renders the printable receipt for a payment.
func ReceiptHTML(p *PaymentView, issued time.Time) (string, error) {
	data := receiptData{
		ReceiptNumber:   p.ReceiptNumber,
		IssuedOn:        issued.Format("January 2, 2006"),
		StudentName:     p.StudentName,
		Grade:           models.GradeDisplay(p.StudentGrade),
		Board:           string(p.Student.Board),
		Term:            p.PaymentTerm.Display(),
		Mode:            string(p.PaymentMode),
		TransactionDate: p.TransactionDate.Format("2006-01-02"),
		AmountDue:       p.AmountDue.StringFixed(2),
		AmountPaid:      p.AmountPaid.StringFixed(2),
		Status:          string(p.PaymentStatus),
	}
	if p.TransactionID != nil {
		data.TransactionID = *p.TransactionID
	}
	if p.Notes != nil {
		data.Notes = *p.Notes
	}

	var rendered bytes.Buffer
	if err := receiptTemplate.Execute(&rendered, data); err != nil {
		return "", errors.Wrap(err, "rendering receipt")
	}
	return rendered.String(), nil
}

// PDF renders the receipt of payment id.
func (s *ReceiptService) PDF(ctx context.Context, id uuid.UUID) ([]byte, *PaymentView, error) {
	payment, err := s.payments.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	html, err := ReceiptHTML(payment, time.Now())
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	pdf, err := s.renderer.RenderPDF(ctx, html)
	if err != nil {
		return nil, nil, errors.Wrap(err, "generating receipt pdf")
	}
	return pdf, payment, nil
}

// Publish renders the receipt, uploads it and stores the public URL on the
// payment.
func (s *ReceiptService) Publish(ctx context.Context, id uuid.UUID) (*PaymentView, error) {
	if s.uploader == nil {
		return nil, ErrReceiptStorageDisabled
	}

	pdf, payment, err := s.PDF(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, pdf, fmt.Sprintf("%s_%s", payment.ReceiptNumber, payment.StudentID))
	if err != nil {
		return nil, errors.Wrap(err, "uploading receipt")
	}

	err = s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", id).
		UpdateColumn("receipt_url", url).Error
	if err != nil {
		return nil, errors.Wrap(err, "saving receipt url")
	}
	payment.ReceiptURL = &url

	s.log.Info().Str("payment_id", id.String()).Str("url", url).Msg("receipt published")
	return payment, nil
}

// ChromeRenderer prints HTML to PDF with a headless Chrome.
type ChromeRenderer struct{}

func (ChromeRenderer) RenderPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

// CloudinaryUploader stores receipts as raw assets in one folder.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(url, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "configuring cloudinary")
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, data []byte, name string) (string, error) {
	result, err := u.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     name,
		Folder:       u.folder,
		ResourceType: "raw",
	})
	if err != nil {
		return "", err
	}
	if result.Error.Message != "" {
		return "", errors.New(result.Error.Message)
	}
	return result.SecureURL, nil
}
