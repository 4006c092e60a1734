package dataset

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

const (
	idxImagesMagic = 2051
	idxLabelsMagic = 2049
)

// openIDX opens path, or path+".gz" when path does not exist, and returns a
// reader that transparently decompresses gzip content.
func openIDX(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		file, err = os.Open(path + ".gz")
	}
	if err != nil {
		return nil, errors.Wrap(err, "open idx file")
	}

	br := bufio.NewReader(file)
	header, err := br.Peek(2)
	if err != nil {
		file.Close()
		return nil, errors.Wrapf(err, "read header of %s", file.Name())
	}
	if header[0] != 0x1f || header[1] != 0x8b {
		return readCloser{Reader: br, Closer: file}, nil
	}

	gz, err := gzip.NewReader(br)
	if err != nil {
		file.Close()
		return nil, errors.Wrapf(err, "gunzip %s", file.Name())
	}
	return readCloser{Reader: gz, Closer: file}, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

// readIDXImages reads up to limit 28×28 images from an IDX image file
// (limit <= 0 reads all of them) and returns them with the count declared in
// the header. Images are read one at a time, so a header that overstates the
// count fails on the missing payload instead of on allocation.
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes
//	number of cols: 4 bytes
//	pixel data: unsigned bytes (0-255)
func readIDXImages(r io.Reader, limit int) (images [][]byte, total int, err error) {
	var header [4]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, 0, errors.Wrap(err, "read image header")
	}
	if header[0] != idxImagesMagic {
		return nil, 0, errors.Errorf("invalid image magic number: got %d, want %d", header[0], idxImagesMagic)
	}
	if header[2] != 28 || header[3] != 28 {
		return nil, 0, errors.Errorf("images are %dx%d, want 28x28", header[2], header[3])
	}

	total, err = idxCount(header[1])
	if err != nil {
		return nil, 0, errors.Wrap(err, "image header")
	}
	n := total
	if limit > 0 && n > limit {
		n = limit
	}

	for i := 0; i < n; i++ {
		img := make([]byte, DigitPixels)
		if _, err := io.ReadFull(r, img); err != nil {
			return nil, 0, errors.Wrapf(err, "read image %d of %d", i, total)
		}
		images = append(images, img)
	}

	return images, total, nil
}

// readIDXLabels reads up to limit labels from an IDX label file and returns
// them with the count declared in the header.
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes (0-9)
func readIDXLabels(r io.Reader, limit int) (labels []byte, total int, err error) {
	var header [2]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, 0, errors.Wrap(err, "read label header")
	}
	if header[0] != idxLabelsMagic {
		return nil, 0, errors.Errorf("invalid label magic number: got %d, want %d", header[0], idxLabelsMagic)
	}

	total, err = idxCount(header[1])
	if err != nil {
		return nil, 0, errors.Wrap(err, "label header")
	}
	n := total
	if limit > 0 && n > limit {
		n = limit
	}

	labels, err = io.ReadAll(io.LimitReader(r, int64(n)))
	if err != nil {
		return nil, 0, errors.Wrap(err, "read labels")
	}
	if len(labels) != n {
		return nil, 0, errors.Wrapf(io.ErrUnexpectedEOF, "read labels: got %d of %d", len(labels), n)
	}

	return labels, total, nil
}

// maxIDXItems bounds the item count accepted from an IDX header.
const maxIDXItems = 1 << 24

func idxCount(declared uint32) (int, error) {
	if declared == 0 || declared > maxIDXItems {
		return 0, errors.Errorf("item count %d out of range (1..%d)", declared, maxIDXItems)
	}
	return int(declared), nil
}
