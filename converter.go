package fileproc

// Converters are modifiers applied to a failed-record payload before it is
// written to a FailedRecordStore, such as compression or encryption. The
// order of the layers matters. When a record is prepared for storage, the
// toStorage method runs in the order the layers are defined; reading back
// runs fromStorage in reverse order.
type Converters []converter

func (s Converters) toStorage(in []byte) ([]byte, error) {
	var (
		b   = in
		err error
	)
	for _, layer := range s {
		b, err = layer.toStorage(b)
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (s Converters) fromStorage(in []byte) ([]byte, error) {
	var (
		b   = in
		err error
	)
	for i := len(s) - 1; i >= 0; i-- {
		b, err = s[i].fromStorage(b)
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (s Converters) equal(c Converters) bool {
	if len(s) != len(c) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !s[i].equal(c[i]) {
			return false
		}
	}
	return true
}

// converter is a payload modifier layer applied to archived record bytes.
type converter interface {
	toStorage([]byte) ([]byte, error)
	fromStorage([]byte) ([]byte, error)
	equal(converter) bool
}

// NewFailedRecordConverters builds the standard compress-then-encrypt
// pipeline used to protect PII in cold-archived failed rows. The underlying
// converter types are package-private; callers outside fileproc go through
// this constructor rather than building a Converters slice themselves.
func NewFailedRecordConverters(passphrase string) (Converters, error) {
	cipher, err := NewAES256CTR(passphrase)
	if err != nil {
		return nil, err
	}
	return Converters{Compressor{}, cipher}, nil
}
