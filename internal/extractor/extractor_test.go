package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/izzat2702/KognitDeck/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_PlainText(t *testing.T) {
	r := NewRouter()
	res, err := r.Extract(context.Background(), "notes.txt", []byte("  cell membranes regulate transport  "))
	require.NoError(t, err)
	assert.Equal(t, "cell membranes regulate transport", res.Text)
	assert.Equal(t, 4, res.WordCount)
	assert.Equal(t, 1, res.PageCount)
}

func TestRouter_UnsupportedExtension(t *testing.T) {
	r := NewRouter()
	_, err := r.Extract(context.Background(), "slides.pptx", []byte("whatever"))

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeExtractionFailed, appErr.Code)
	assert.Equal(t, 415, appErr.HTTPCode)
}

func TestPDF_ExtractsUncompressedText(t *testing.T) {
	doc := []byte("%PDF-1.4\n" +
		"1 0 obj << /Type /Page >> endobj\n" +
		"BT (Mitochondria produce ATP) Tj ET\n" +
		"BT (through oxidative \\(aerobic\\) phosphorylation) Tj ET\n")

	res, err := NewPDF().Extract(context.Background(), "bio.pdf", doc)
	require.NoError(t, err)
	assert.Equal(t, 1, res.PageCount)
	assert.Contains(t, res.Text, "Mitochondria produce ATP")
	assert.Contains(t, res.Text, "oxidative (aerobic) phosphorylation")
}

func TestPDF_RejectsNonPDFBytes(t *testing.T) {
	_, err := NewPDF().Extract(context.Background(), "fake.pdf", []byte("just text"))
	assert.Error(t, err)
}

func TestLimited_ByteLimit(t *testing.T) {
	l := NewLimited(NewPlainText(), Limits{MaxBytes: 10})
	_, err := l.Extract(context.Background(), "big.txt", []byte("this exceeds ten bytes"))

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 413, appErr.HTTPCode)
}

func TestLimited_NoExtractableText(t *testing.T) {
	l := NewLimited(NewPlainText(), Limits{})
	_, err := l.Extract(context.Background(), "empty.txt", []byte("   \n\t  "))

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 422, appErr.HTTPCode)
}

func TestLimited_TruncatesToWordLimit(t *testing.T) {
	text := strings.Repeat("word ", 100)
	l := NewLimited(NewPlainText(), Limits{MaxWords: 40})
	res, err := l.Extract(context.Background(), "long.txt", []byte(text))
	require.NoError(t, err)
	assert.Equal(t, 40, res.WordCount)
	assert.Len(t, strings.Fields(res.Text), 40)
}

func TestLimited_PageLimit(t *testing.T) {
	doc := []byte("%PDF-1.4\n" +
		strings.Repeat("1 0 obj << /Type /Page >> endobj\n", 3) +
		"BT (content) Tj ET\n")

	l := NewLimited(NewPDF(), Limits{MaxPages: 2})
	_, err := l.Extract(context.Background(), "long.pdf", doc)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 413, appErr.HTTPCode)
}

func TestLimited_MapsDeadlineToTimeout(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	l := NewLimited(NewPlainText(), Limits{})
	_, err := l.Extract(ctx, "notes.txt", []byte("text"))

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 408, appErr.HTTPCode)
}
