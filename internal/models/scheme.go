// Package models defines the data types shared across Navcalc services.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// flexInt64 handles JSON values that may be either a number or a string.
// The provider is inconsistent about scheme codes across endpoints.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	var num int64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexInt64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexInt64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into int64", string(data))
}

// SchemeMeta holds the provider's scheme metadata block.
type SchemeMeta struct {
	FundHouse           string    `json:"fund_house"`
	SchemeType          string    `json:"scheme_type"`
	SchemeCategory      string    `json:"scheme_category"`
	SchemeCode          flexInt64 `json:"scheme_code"`
	SchemeName          string    `json:"scheme_name"`
	ISINGrowth          string    `json:"isin_growth"`
	ISINDivReinvestment string    `json:"isin_div_reinvestment"`
}

// Code returns the scheme code as an int64.
func (m *SchemeMeta) Code() int64 {
	return int64(m.SchemeCode)
}

// NavRow is one raw NAV record as published by the provider: the date is
// DD-MM-YYYY and the NAV is a decimal string, "-" or "" when unpublished.
type NavRow struct {
	Date string `json:"date"`
	Nav  string `json:"nav"`
}

// Scheme is the provider payload for one scheme: metadata plus the full NAV
// history, newest row first.
type Scheme struct {
	Meta      SchemeMeta `json:"meta"`
	Data      []NavRow   `json:"data"`
	FetchedAt time.Time  `json:"fetched_at,omitempty"`
}

// SchemeListEntry is one row of the provider's full scheme directory.
type SchemeListEntry struct {
	SchemeCode          flexInt64 `json:"schemeCode"`
	SchemeName          string    `json:"schemeName"`
	ISINGrowth          string    `json:"isinGrowth,omitempty"`
	ISINDivReinvestment string    `json:"isinDivReinvestment,omitempty"`
}

// Code returns the scheme code as an int64.
func (e *SchemeListEntry) Code() int64 {
	return int64(e.SchemeCode)
}

// SchemeListPage is one page of the scheme directory list.
type SchemeListPage struct {
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	HasMore    bool              `json:"hasMore"`
	Data       []SchemeListEntry `json:"data"`
	ActiveOnly bool              `json:"activeOnly"`
}

// SchemeDetail is the scheme endpoint response: meta plus the NAV history
// rows, newest first, restricted to rows that parsed cleanly.
type SchemeDetail struct {
	Meta  SchemeMeta `json:"meta"`
	Total int        `json:"total"`
	Data  []NavRow   `json:"data"`
}
