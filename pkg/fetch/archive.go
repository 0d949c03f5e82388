package fetch

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"
)

// ExtractionError reports an archive that holds no member with the wanted suffix.
type ExtractionError struct {
	URL    string
	Suffix string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s: no %q member: %v", e.URL, e.Suffix, e.Err)
	}
	return fmt.Sprintf("extract %s: no %q member found in archive", e.URL, e.Suffix)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// FetchArchiveMember fetches rawURL (through the cache) and returns the
// content of the file ending in suffix. Tarballs (.tar.gz, .tgz) are walked
// and the first matching regular member wins; if several match, which one is
// first depends on the archive's member order. A plain .gz is a single
// compressed file.
func (f *Fetcher) FetchArchiveMember(ctx context.Context, rawURL, suffix string) ([]byte, error) {
	body, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	name := strings.ToLower(rawURL)
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return extractTarMember(rawURL, body, suffix, f.bodyLimit())
	case strings.HasSuffix(name, ".gz"):
		if !strings.HasSuffix(strings.TrimSuffix(name, ".gz"), suffix) {
			return nil, &ExtractionError{URL: rawURL, Suffix: suffix}
		}
		return gunzip(rawURL, body, suffix, f.bodyLimit())
	case strings.HasSuffix(name, suffix):
		return body, nil
	}
	return nil, &ExtractionError{URL: rawURL, Suffix: suffix}
}

// readLimited reads r fully, failing once more than limit bytes come out.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(out)) > limit {
		return nil, fmt.Errorf("decompressed size exceeds limit of %d bytes", limit)
	}
	return out, nil
}

func gunzip(rawURL string, body []byte, suffix string, limit int64) ([]byte, error) {
	gzReader, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ExtractionError{URL: rawURL, Suffix: suffix, Err: err}
	}
	defer gzReader.Close()

	out, err := readLimited(gzReader, limit)
	if err != nil {
		return nil, &ExtractionError{URL: rawURL, Suffix: suffix, Err: err}
	}
	return out, nil
}

func extractTarMember(rawURL string, body []byte, suffix string, limit int64) ([]byte, error) {
	gzReader, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ExtractionError{URL: rawURL, Suffix: suffix, Err: err}
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ExtractionError{URL: rawURL, Suffix: suffix, Err: err}
		}

		if header.Typeflag == tar.TypeReg && strings.HasSuffix(header.Name, suffix) {
			if header.Size > limit {
				return nil, &ExtractionError{URL: rawURL, Suffix: suffix,
					Err: fmt.Errorf("member %s is %d bytes, limit is %d", header.Name, header.Size, limit)}
			}
			out, err := readLimited(tarReader, limit)
			if err != nil {
				return nil, fmt.Errorf("read member %s: %w", header.Name, err)
			}
			return out, nil
		}
	}

	return nil, &ExtractionError{URL: rawURL, Suffix: suffix}
}
