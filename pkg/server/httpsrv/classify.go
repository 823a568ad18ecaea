package httpsrv

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// QueryKind says which lookup a search token selects.
type QueryKind int

const (
	QueryKindUndefined = QueryKind(iota)
	QueryKindWorkorder
	QueryKindBatch
	QueryKindDeviceID
	QueryKindDeviceIDList
)

// Query is one classified search token.
type Query struct {
	Kind      QueryKind
	DeviceID  string
	DeviceIDs []string
	Batch     string
	Workorder int64
}

// The classification regexps, checked in priority order: an all-digit
// 5-character token could otherwise be read as a device id, so the more
// specific workorder and batch shapes go first.
var (
	workorderTokenRe = regexp.MustCompile(`^#(\d{5})$`)
	batchTokenRe     = regexp.MustCompile(`^#?(\d{8}_\d{2})$`)
	deviceIDTokenRe  = regexp.MustCompile(`(?i)^[A-Z0-9]{5,10}$`)
)

// ErrBadToken implements "error", for the description see Error.
type ErrBadToken struct {
	Token string
}

func (err ErrBadToken) Error() string {
	return fmt.Sprintf("unable to classify search token '%s'", err.Token)
}

// Classify parses a raw search token into a Query. Device ids are
// case-normalized to upper case; a comma-separated list of device ids
// becomes a bulk lookup.
func Classify(token string) (Query, error) {
	token = strings.TrimSpace(token)

	if m := workorderTokenRe.FindStringSubmatch(token); m != nil {
		number, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return Query{}, ErrBadToken{Token: token}
		}
		return Query{Kind: QueryKindWorkorder, Workorder: number}, nil
	}

	if m := batchTokenRe.FindStringSubmatch(token); m != nil {
		return Query{Kind: QueryKindBatch, Batch: m[1]}, nil
	}

	if strings.Contains(token, ",") {
		var deviceIDs []string
		for _, part := range strings.Split(token, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if !deviceIDTokenRe.MatchString(part) {
				return Query{}, ErrBadToken{Token: token}
			}
			deviceIDs = append(deviceIDs, strings.ToUpper(part))
		}
		if len(deviceIDs) == 0 {
			return Query{}, ErrBadToken{Token: token}
		}
		return Query{Kind: QueryKindDeviceIDList, DeviceIDs: deviceIDs}, nil
	}

	if deviceIDTokenRe.MatchString(token) {
		return Query{Kind: QueryKindDeviceID, DeviceID: strings.ToUpper(token)}, nil
	}

	return Query{}, ErrBadToken{Token: token}
}
