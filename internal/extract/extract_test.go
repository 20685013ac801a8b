package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Acme Corp | Engineer | Jan 2019 - Present</w:t></w:r></w:p>` +
	`</w:body></w:document>`

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractTextFromBytes_Docx(t *testing.T) {
	data := buildZip(t, map[string]string{"word/document.xml": documentXML})

	text, err := ExtractTextFromBytes(context.Background(), data, MimeDOCX, "cv.docx")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nAcme Corp | Engineer | Jan 2019 - Present", text)
}

func TestExtractTextFromBytes_ZipDocxNormalizes(t *testing.T) {
	data := buildZip(t, map[string]string{"word/document.xml": documentXML})

	for _, mime := range []string{"application/zip", "application/octet-stream", ""} {
		_, err := ExtractTextFromBytes(context.Background(), data, mime, "upload.bin")
		assert.NoError(t, err, "mime %q", mime)
	}
}

func TestExtractTextFromBytes_RealZipRejected(t *testing.T) {
	data := buildZip(t, map[string]string{"notes.txt": "hello"})

	_, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "notes.zip")
	require.ErrorIs(t, err, ErrUnsupported)
	assert.True(t, strings.Contains(err.Error(), "application/zip"))
}

func TestExtractTextFromBytes_EmptyDocx(t *testing.T) {
	data := buildZip(t, map[string]string{"word/document.xml": `<w:document xmlns:w="x"><w:body/></w:document>`})

	_, err := ExtractTextFromBytes(context.Background(), data, MimeDOCX, "empty.docx")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestExtractTextFromBytes_BrokenPDF(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), []byte("%PDF-1.4 truncated"), "application/octet-stream", "cv.pdf")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupported)
}

func TestExtractTextFromBytes_Unsupported(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), []byte("plain"), "text/plain", "cv.txt")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestExtractTextFromBytes_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ExtractTextFromBytes(ctx, nil, MimePDF, "cv.pdf")
	assert.ErrorIs(t, err, context.Canceled)
}
