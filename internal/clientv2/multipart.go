package clientv2

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"
	"sync"

	internal_io "github.com/alloon/photi-go/internal/io"
)

type (
	keyValuePair struct {
		key, value string
	}
	keyFilePair struct {
		key, fileName, contentType string
		stream                     internal_io.ReadSeekCloser
	}

	// MultipartForm is encoded again on every attempt, so requests built
	// from it can be resent after a credential refresh.
	MultipartForm struct {
		values       []keyValuePair
		files        []keyFilePair
		boundary     string
		boundaryOnce sync.Once
	}
)

func (f *MultipartForm) SetValue(key, value string) *MultipartForm {
	f.values = append(f.values, keyValuePair{key, value})
	return f
}

func (f *MultipartForm) SetFile(key, fileName, contentType string, stream internal_io.ReadSeekCloser) *MultipartForm {
	f.files = append(f.files, keyFilePair{key, fileName, contentType, stream})
	return f
}

// Close closes every attached file stream.
func (f *MultipartForm) Close() (err error) {
	for _, pair := range f.files {
		if e := pair.stream.Close(); e != nil && err == nil {
			err = e
		}
	}
	return
}

func (f *MultipartForm) generateBoundary() string {
	f.boundaryOnce.Do(func() {
		var buf [30]byte
		_, err := io.ReadFull(rand.Reader, buf[:])
		if err != nil {
			panic(err)
		}
		f.boundary = fmt.Sprintf("%x", buf[:])
	})
	return f.boundary
}

func (f *MultipartForm) encode() (*bytes.Buffer, string, error) {
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	if err := w.SetBoundary(f.generateBoundary()); err != nil {
		return nil, "", err
	}
	for _, pair := range f.values {
		if err := w.WriteField(pair.key, pair.value); err != nil {
			return nil, "", err
		}
	}
	for _, pair := range f.files {
		if _, err := pair.stream.Seek(0, io.SeekStart); err != nil {
			return nil, "", err
		}
		if err := createFormFile(w, pair.key, pair.fileName, pair.contentType, pair.stream); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

func createFormFile(w *multipart.Writer, fieldName, fileName, contentType string, stream io.Reader) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(fieldName), escapeQuotes(fileName)))
	h.Set("Content-Type", contentType)
	if part, err := w.CreatePart(h); err != nil {
		return err
	} else if _, err := io.Copy(part, stream); err != nil {
		return err
	}
	return nil
}

func GetMultipartFormRequestBody(info *MultipartForm) GetRequestBody {
	return func(o *RequestParams) (io.ReadCloser, error) {
		buf, contentType, err := info.encode()
		if err != nil {
			return nil, err
		}
		o.Header.Set("Content-Type", contentType)
		o.Header.Set("Content-Length", strconv.Itoa(buf.Len()))
		return internal_io.NewBytesNopCloser(buf.Bytes()), nil
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
