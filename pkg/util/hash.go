package util

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/weiwei-tsao/airbnb-dashboard/pkg/model"
)

// HashListingKey creates an MD5 hash over every field of a listing, used as its document ID.
// Row position is part of the key so identical rows stay distinct documents.
func HashListingKey(row int, l model.Listing) string {
	builder := strings.Builder{}
	builder.WriteString(strconv.Itoa(row))
	for _, f := range []string{l.Country, l.CountryCode, l.RoomType, l.PropertyType, l.HostName} {
		builder.WriteString("|")
		builder.WriteString(strings.TrimSpace(strings.ToLower(f)))
	}
	builder.WriteString("|")
	builder.WriteString(formatFloat(l.Price))
	builder.WriteString("|")
	if l.Availability365 != nil {
		builder.WriteString(strconv.Itoa(*l.Availability365))
	}
	builder.WriteString("|")
	builder.WriteString(formatFloat(l.ReviewScores))
	return hashString(builder.String())
}

func hashString(input string) string {
	sum := md5.Sum([]byte(input))
	return hex.EncodeToString(sum[:])
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
