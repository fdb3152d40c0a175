package service

import (
	"fmt"
	"regexp"
	"strconv"
)

// Order references bind a payment attempt to a user and an invoice and are
// echoed back by the provider in webhooks. The grammar is fixed and
// versioned by its prefix: nv-<userID>-<invoiceID>, decimal ids only.
// Anything the provider sends back that does not match this grammar is
// treated as foreign and rejected before any state is touched.
const orderRefPrefix = "nv"

var orderRefPattern = regexp.MustCompile(`^` + orderRefPrefix + `-([0-9]+)-([0-9]+)$`)

func EncodeOrderRef(userId, invoiceId int64) string {
	return fmt.Sprintf("%s-%d-%d", orderRefPrefix, userId, invoiceId)
}

func DecodeOrderRef(orderRef string) (userId, invoiceId int64, err error) {
	matches := orderRefPattern.FindStringSubmatch(orderRef)
	if matches == nil {
		return 0, 0, ErrMalformedReference
	}
	userId, err = strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, 0, ErrMalformedReference
	}
	invoiceId, err = strconv.ParseInt(matches[2], 10, 64)
	if err != nil {
		return 0, 0, ErrMalformedReference
	}
	return userId, invoiceId, nil
}
