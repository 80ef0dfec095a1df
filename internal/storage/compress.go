package storage

import "github.com/klauspost/compress/zstd"

type zstdCodec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func newZstdCodec() (zstdCodec, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return zstdCodec{}, err
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return zstdCodec{}, err
	}
	return zstdCodec{encoder: encoder, decoder: decoder}, nil
}

func (c zstdCodec) encode(data []byte) []byte {
	return c.encoder.EncodeAll(data, nil)
}

func (c zstdCodec) decode(data []byte) ([]byte, error) {
	return c.decoder.DecodeAll(data, nil)
}

func (c zstdCodec) close() {
	if c.encoder != nil {
		_ = c.encoder.Close()
	}
	if c.decoder != nil {
		c.decoder.Close()
	}
}
