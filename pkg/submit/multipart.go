package submit

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-formflow/pkg/attach"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// FileOpener resolves a picked image URI to its content. The default opener
// reads local files, accepting both bare paths and file:// URIs.
type FileOpener func(uri string) (io.ReadCloser, error)

func defaultFileOpener(uri string) (io.ReadCloser, error) {
	path := strings.TrimPrefix(uri, "file://")
	return os.Open(path)
}

var contentTypeByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// encodeBody writes every captured field, every extra field, and every
// attached image into a single multipart payload. Field order follows schema
// order so payloads are deterministic.
func encodeBody(binding Binding, values []schema.FieldValue, snapshot attach.Snapshot, opener FileOpener) (body []byte, contentType string, err error) {
	if opener == nil {
		opener = defaultFileOpener
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, fv := range values {
		if err := writer.WriteField(fv.Key, fv.Value); err != nil {
			return nil, "", fmt.Errorf("write field %q: %w", fv.Key, err)
		}
	}
	for _, extra := range binding.Extra {
		if extra.Name == "" {
			continue
		}
		if err := writer.WriteField(extra.Name, extra.Value); err != nil {
			return nil, "", fmt.Errorf("write extra field %q: %w", extra.Name, err)
		}
	}

	for _, slot := range snapshot {
		if len(slot.Items) == 0 {
			continue
		}
		naming, ok := binding.namingFor(slot.Name)
		if !ok {
			return nil, "", fmt.Errorf("slot %q has images but no declared file naming", slot.Name)
		}
		if naming.Convention == NamingSingular && len(slot.Items) > 1 {
			return nil, "", fmt.Errorf("slot %q is bound as singular but holds %d images", slot.Name, len(slot.Items))
		}

		for i, img := range slot.Items {
			partName := naming.Field
			if naming.Convention == NamingIndexed {
				partName = fmt.Sprintf("%s_%d", naming.Field, i+1)
			}
			if err := writeFilePart(writer, partName, naming.Field, i, img, opener); err != nil {
				return nil, "", err
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize body: %w", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

func writeFilePart(writer *multipart.Writer, partName, baseName string, index int, img attach.Image, opener FileOpener) error {
	ext := strings.ToLower(filepath.Ext(img.URI))
	contentType, ok := contentTypeByExt[ext]
	if !ok {
		// The source screens upload everything as JPEG regardless of the
		// picked asset's actual type.
		ext = ".jpg"
		contentType = "image/jpeg"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`,
		partName, fmt.Sprintf("%s%d%s", baseName, index+1, ext)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create part %q: %w", partName, err)
	}

	content, err := opener(img.URI)
	if err != nil {
		return fmt.Errorf("open image %q: %w", img.URI, err)
	}
	defer content.Close()

	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("copy image %q: %w", img.URI, err)
	}
	return nil
}
