package utils

import (
	"strconv"
	"time"
)

var indonesianMonths = []string{
	"Januari",
	"Februari",
	"Maret",
	"April",
	"Mei",
	"Juni",
	"Juli",
	"Agustus",
	"September",
	"Oktober",
	"November",
	"Desember",
}

var indonesianDays = map[time.Weekday]string{
	time.Sunday:    "Minggu",
	time.Monday:    "Senin",
	time.Tuesday:   "Selasa",
	time.Wednesday: "Rabu",
	time.Thursday:  "Kamis",
	time.Friday:    "Jumat",
	time.Saturday:  "Sabtu",
}

// FormatIndonesianDate returns the date the way official letters print it,
// e.g. "20 Mei 2024".
func FormatIndonesianDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	localTime := t.In(time.Local)
	monthIndex := int(localTime.Month()) - 1
	if monthIndex < 0 || monthIndex >= len(indonesianMonths) {
		return localTime.Format("02/01/2006")
	}

	return strconv.Itoa(localTime.Day()) + " " + indonesianMonths[monthIndex] + " " + strconv.Itoa(localTime.Year())
}

// FormatIndonesianDayDate prefixes the weekday name, the form defense
// schedules are written in, e.g. "Senin, 20 Mei 2024".
func FormatIndonesianDayDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return indonesianDays[t.In(time.Local).Weekday()] + ", " + FormatIndonesianDate(t)
}
