package ui

import (
	"errors"
	"strconv"
	"strings"
)

const (
	AckCallbackPrefix  = "m:ack:"
	MaxCallbackDataLen = 64
)

var (
	errInvalidPrefix       = errors.New("invalid callback prefix")
	errInvalidSlot         = errors.New("invalid callback slot")
	errCallbackDataTooLong = errors.New("callback data too long")
)

// BuildAckCallback encodes the dosing slot into the reminder button's
// callback data, so a tap carries the slot even after the pending entry
// has expired.
func BuildAckCallback(slot int) (string, error) {
	if slot != 1 && slot != 2 {
		return "", errInvalidSlot
	}
	data := AckCallbackPrefix + strconv.Itoa(slot)
	if len(data) > MaxCallbackDataLen {
		return "", errCallbackDataTooLong
	}
	return data, nil
}

func ParseAckCallback(data string) (int, error) {
	if len(data) > MaxCallbackDataLen {
		return 0, errCallbackDataTooLong
	}
	rest, ok := strings.CutPrefix(data, AckCallbackPrefix)
	if !ok {
		return 0, errInvalidPrefix
	}
	slot, err := strconv.Atoi(rest)
	if err != nil || (slot != 1 && slot != 2) {
		return 0, errInvalidSlot
	}
	return slot, nil
}
