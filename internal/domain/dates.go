package domain

import "time"

// DateOf отбрасывает время суток, оставляя календарную дату в UTC.
// Все даты договоров хранятся и сравниваются в этой форме.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween возвращает количество календарных дней от from до to (может быть отрицательным)
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}

// MonthRange возвращает полуоткрытый интервал [первое число месяца, первое число следующего месяца)
// в указанной временной зоне. Декабрь переходит в январь следующего года.
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	if month == time.December {
		return from, time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc)
	}
	return from, time.Date(year, month+1, 1, 0, 0, 0, 0, loc)
}

// PreviousMonth возвращает год и месяц, предшествующие указанным
func PreviousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}
