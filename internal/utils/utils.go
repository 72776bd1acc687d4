package utils

import (
	"errors"
	"io"
)

func Any[T any](xs []T, pred func(T) bool) bool {
	for _, x := range xs {
		if pred(x) {
			return true
		}
	}
	return false
}

func ReadToEnd(r io.Reader) ([]byte, error) {
	BUF_SIZE := 1024 * 8
	buffer := make([]byte, BUF_SIZE)
	result := []byte{}
	readMore := true
	var err error = nil
	for readMore {
		var numRead int
		numRead, err = r.Read(buffer)
		if err != nil && !errors.Is(err, io.EOF) {
			readMore = false
		} else {
			readMore = err == nil
			result = append(result, buffer[:numRead]...)
		}
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return result, nil
}
