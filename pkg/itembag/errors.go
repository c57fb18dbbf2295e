package itembag

import "github.com/cockroachdb/errors"

// ErrInsufficientQuantity 严格移除时背包内数量不足
var ErrInsufficientQuantity = errors.New("insufficient item quantity")
