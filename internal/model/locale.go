// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Locale text directions
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// Locale represents a content locale served by the site.
type Locale struct {
	Code       string `json:"code"`        // short code: en, fr, pt, jp
	Name       string `json:"name"`        // English, French, Portuguese
	NativeName string `json:"native_name"` // English, Français, Português
	Direction  string `json:"direction"`   // ltr, rtl
	IsDefault  bool   `json:"is_default"`  // exactly one locale is default
}

// IsRTL returns true if the locale is written right-to-left.
func (l Locale) IsRTL() bool {
	return l.Direction == DirectionRTL
}

// CommonLocales provides display metadata for frequently used locale codes.
// Codes configured without explicit metadata are looked up here.
var CommonLocales = []Locale{
	{Code: "en", Name: "English", NativeName: "English", Direction: DirectionLTR},
	{Code: "fr", Name: "French", NativeName: "Français", Direction: DirectionLTR},
	{Code: "pt", Name: "Portuguese", NativeName: "Português", Direction: DirectionLTR},
	{Code: "jp", Name: "Japanese", NativeName: "日本語", Direction: DirectionLTR},
	{Code: "de", Name: "German", NativeName: "Deutsch", Direction: DirectionLTR},
	{Code: "es", Name: "Spanish", NativeName: "Español", Direction: DirectionLTR},
	{Code: "it", Name: "Italian", NativeName: "Italiano", Direction: DirectionLTR},
	{Code: "nl", Name: "Dutch", NativeName: "Nederlands", Direction: DirectionLTR},
	{Code: "pl", Name: "Polish", NativeName: "Polski", Direction: DirectionLTR},
	{Code: "ru", Name: "Russian", NativeName: "Русский", Direction: DirectionLTR},
	{Code: "uk", Name: "Ukrainian", NativeName: "Українська", Direction: DirectionLTR},
	{Code: "zh", Name: "Chinese", NativeName: "中文", Direction: DirectionLTR},
	{Code: "ar", Name: "Arabic", NativeName: "العربية", Direction: DirectionRTL},
	{Code: "he", Name: "Hebrew", NativeName: "עברית", Direction: DirectionRTL},
	{Code: "tr", Name: "Turkish", NativeName: "Türkçe", Direction: DirectionLTR},
}

// LookupCommonLocale returns display metadata for a known code.
// The second return value is false when the code is not in CommonLocales.
func LookupCommonLocale(code string) (Locale, bool) {
	for _, l := range CommonLocales {
		if l.Code == code {
			return l, true
		}
	}
	return Locale{}, false
}
