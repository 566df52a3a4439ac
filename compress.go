package fileproc

import "github.com/klauspost/compress/zstd"

// Reader/writer pair reused across archival operations.
var (
	encoder, _ = zstd.NewWriter(nil)
	decoder, _ = zstd.NewReader(nil)
)

// Compress a failed-record payload before it's written to cold storage.
func Compress(src []byte) ([]byte, error) {
	return encoder.EncodeAll(src, make([]byte, 0, len(src))), nil
}

// Decompress a payload read back from cold storage. If dst is non-nil it's
// reused as the destination buffer.
func Decompress(dst, src []byte) ([]byte, error) {
	return decoder.DecodeAll(src, dst)
}

// Compressor is a converter layer that compresses/decompresses record
// payloads to and from storage.
type Compressor struct{}

var _ converter = Compressor{}

func (d Compressor) toStorage(in []byte) ([]byte, error) {
	return Compress(in)
}

func (d Compressor) fromStorage(in []byte) ([]byte, error) {
	return Decompress(nil, in)
}

func (d Compressor) equal(c converter) bool {
	_, ok := c.(Compressor)
	return ok
}
