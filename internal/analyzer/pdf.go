package analyzer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/chatterforms/formlens/internal/convert"
	"github.com/chatterforms/formlens/internal/extract"
	"github.com/chatterforms/formlens/internal/pdftext"
	"github.com/chatterforms/formlens/internal/schema"
)

// PDFRequest is one PDF analysis submission.
type PDFRequest struct {
	Data     []byte
	Filename string

	// Pages selects a subset of pages (1-indexed). Required once the
	// document exceeds the page cap.
	Pages []int
	// SelectAll analyzes the first MaxPages pages of a large document.
	SelectAll bool

	AdditionalContext string
}

// PDFResult is the outcome of a PDF analysis.
type PDFResult struct {
	// NeedsPageSelection is set when the document exceeds the page cap and
	// no page subset was provided. Pages then carries thumbnails for the
	// caller to choose from, and no model call has been made.
	NeedsPageSelection bool                     `json:"needsPageSelection"`
	TotalPages         int                      `json:"totalPages"`
	Pages              []convert.PageImage      `json:"pages,omitempty"`
	Fields             []schema.FieldExtraction `json:"fields,omitempty"`
}

// AnalyzePDF converts a PDF to page images via the conversion service and
// runs vision extraction over the selected pages in one batched call.
// Temporary page images are cleaned up best-effort once analysis has run.
func (a *Analyzer) AnalyzePDF(ctx context.Context, req PDFRequest) (*PDFResult, error) {
	release, err := a.guard.Acquire(KindPDF)
	if err != nil {
		return nil, err
	}
	defer release()

	if len(req.Data) == 0 {
		return nil, fmt.Errorf("empty PDF payload")
	}
	if localPages, err := pdftext.PageCount(req.Data); err != nil {
		a.logger.Warn("local page count failed, deferring to conversion service", "error", err)
	} else {
		a.logger.Debug("pdf received", "filename", req.Filename, "pages", localPages)
	}

	upload, err := a.converter.Upload(ctx, req.Data, req.Filename)
	if err != nil {
		return nil, fmt.Errorf("PDF conversion failed: %w", err)
	}

	// Page-selection gate: above the cap the caller must narrow the set
	// before any model call happens. The thumbnails stay alive on the
	// conversion service so the caller can render the picker.
	if upload.TotalPages > a.cfg.MaxPages && len(req.Pages) == 0 && !req.SelectAll {
		return &PDFResult{
			NeedsPageSelection: true,
			TotalPages:         upload.TotalPages,
			Pages:              upload.Images,
		}, nil
	}

	defer a.converter.Cleanup(context.WithoutCancel(ctx), upload.UUID)

	pages, err := selectPages(req, upload.TotalPages, a.cfg.MaxPages)
	if err != nil {
		return nil, err
	}

	imageByPage := make(map[int]convert.PageImage, len(upload.Images))
	for _, img := range upload.Images {
		imageByPage[img.Page] = img
	}

	// All selected pages go into one multi-image call.
	var (
		images  []string
		mapping []string
	)
	for _, p := range pages {
		img, ok := imageByPage[p]
		if !ok {
			return nil, fmt.Errorf("conversion service returned no image for page %d", p)
		}
		data, err := a.converter.FetchImage(ctx, img.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d image: %w", p, err)
		}
		images = append(images, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(data))
		mapping = append(mapping, fmt.Sprintf("Image %d is page %d.", len(images), p))
	}

	prompt := pdfImagePrompt + "\n" + strings.Join(mapping, "\n")

	opts := schema.DefaultValidateOptions()
	opts.DefaultPage = pages[0]

	fields, err := a.extractFields(ctx, prompt, images, opts)
	if err != nil {
		if errors.Is(err, extract.ErrNoJSON) {
			return nil, ErrNoFields
		}
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	attachContext(fields, req.AdditionalContext)
	return &PDFResult{
		TotalPages: upload.TotalPages,
		Fields:     fields,
	}, nil
}

// selectPages resolves the page subset for analysis, bounded by maxPages.
func selectPages(req PDFRequest, totalPages, maxPages int) ([]int, error) {
	if req.SelectAll || len(req.Pages) == 0 {
		n := totalPages
		if n > maxPages {
			n = maxPages
		}
		pages := make([]int, 0, n)
		for p := 1; p <= n; p++ {
			pages = append(pages, p)
		}
		return pages, nil
	}

	if len(req.Pages) > maxPages {
		return nil, fmt.Errorf("too many pages selected: %d (max %d)", len(req.Pages), maxPages)
	}

	seen := make(map[int]bool, len(req.Pages))
	pages := make([]int, 0, len(req.Pages))
	for _, p := range req.Pages {
		if p < 1 || p > totalPages {
			return nil, fmt.Errorf("page %d out of range (document has %d pages)", p, totalPages)
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages, nil
}

// maxPromptText bounds how much extracted PDF text goes into one prompt.
const maxPromptText = 8000

// AnalyzePDFText is the weaker text-based PDF tier: no conversion service,
// no images. Extracted text goes to a text-only model call; thin text falls
// back to a raw structure prefix; and when even that yields no parseable
// JSON, three generic fields at reduced confidence stand in so the caller
// always gets something to edit.
func (a *Analyzer) AnalyzePDFText(ctx context.Context, data []byte, additionalContext string) ([]schema.FieldExtraction, error) {
	release, err := a.guard.Acquire(KindPDF)
	if err != nil {
		return nil, err
	}
	defer release()

	opts := schema.DefaultValidateOptions()
	opts.DefaultPage = 1

	text := strings.TrimSpace(pdftext.Extract(data))
	if len(text) >= pdftext.MinUsableText {
		if len(text) > maxPromptText {
			text = text[:maxPromptText]
		}
		fields, err := a.extractFields(ctx, pdfTextPromptPrefix+text, nil, opts)
		if err == nil && len(fields) > 0 {
			attachContext(fields, additionalContext)
			return fields, nil
		}
		if err != nil && !errors.Is(err, extract.ErrNoJSON) {
			return nil, err
		}
		a.logger.Warn("text-based PDF extraction yielded nothing, trying structure prefix")
	}

	prefix := pdftext.StructurePrefix(data, 2000)
	fields, err := a.extractFields(ctx, pdfStructurePromptPrefix+prefix, nil, opts)
	if err != nil {
		if !errors.Is(err, extract.ErrNoJSON) {
			return nil, err
		}
		a.logger.Warn("structure analysis produced no parseable JSON, using generic fields")
		fields = genericFallbackFields()
	}
	if len(fields) == 0 {
		fields = genericFallbackFields()
	}

	attachContext(fields, additionalContext)
	return fields, nil
}

// genericFallbackFields is the degraded output for PDFs the model cannot
// read: three common contact fields at reduced confidence.
func genericFallbackFields() []schema.FieldExtraction {
	return []schema.FieldExtraction{
		{
			ID:         "fallback_1",
			Label:      "Full Name",
			Type:       schema.FieldTypeText,
			Required:   true,
			Confidence: 0.4,
			PageNumber: 1,
		},
		{
			ID:         "fallback_2",
			Label:      "Email Address",
			Type:       schema.FieldTypeEmail,
			Required:   true,
			Confidence: 0.4,
			PageNumber: 1,
		},
		{
			ID:         "fallback_3",
			Label:      "Phone Number",
			Type:       schema.FieldTypeTel,
			Confidence: 0.4,
			PageNumber: 1,
		},
	}
}
