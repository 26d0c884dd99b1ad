package hashid

import (
	"errors"

	"github.com/speps/go-hashids/v2"
)

const minLength = 8

var ErrInvalidCode = errors.New("invalid share code")

// Codec 笔记 ID 与分享码互转
type Codec struct {
	h *hashids.HashID
}

func New(salt string) (*Codec, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = minLength
	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, err
	}
	return &Codec{h: h}, nil
}

func (c *Codec) Encode(id uint64) (string, error) {
	return c.h.EncodeInt64([]int64{int64(id)})
}

func (c *Codec) Decode(code string) (uint64, error) {
	nums, err := c.h.DecodeInt64WithError(code)
	if err != nil || len(nums) != 1 || nums[0] <= 0 {
		return 0, ErrInvalidCode
	}
	return uint64(nums[0]), nil
}
