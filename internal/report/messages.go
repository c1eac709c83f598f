package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message identifies a user-visible string in the catalog.
type Message string

// Console lines.
const (
	msgCreated = Message("bootstrap.created")
	msgBanner  = Message("table.banner")
	msgColumns = Message("table.columns")
	msgRow     = Message("table.row")
	msgWritten = Message("summary.written")
	msgMin     = Message("summary.min")
	msgMax     = Message("summary.max")
)

// Summary file labels.
const (
	msgColType       = Message("file.col.type")
	msgColYear       = Message("file.col.year")
	msgColPopulation = Message("file.col.population")
	msgMinLabel      = Message("file.label.min")
	msgMaxLabel      = Message("file.label.max")
)

// Diagnostics, one per error kind reported by the pipeline. Each takes a
// single string argument.
const (
	MsgNotFound         = Message("error.not_found")
	MsgPermissionDenied = Message("error.permission")
	MsgMalformedCSV     = Message("error.csv")
	MsgUnexpected       = Message("error.unexpected")
)

var translations = map[language.Tag]map[Message]string{
	language.English: {
		msgCreated: "Created test file %s",
		msgBanner:  "Population of Ukraine by year:",
		msgColumns: "Year\t\tPopulation",
		msgRow:     "%s\t\t%d",
		msgWritten: "Results written to file %s",
		msgMin:     "Minimum population: %d (year: %s)",
		msgMax:     "Maximum population: %d (year: %s)",

		msgColType:       "Type",
		msgColYear:       "Year",
		msgColPopulation: "Population",
		msgMinLabel:      "Minimum value",
		msgMaxLabel:      "Maximum value",

		MsgNotFound:         "Error: file %s not found",
		MsgPermissionDenied: "Error: no permission to access file %s",
		MsgMalformedCSV:     "Error processing CSV file: %s",
		MsgUnexpected:       "An unexpected error occurred: %s",
	},
	language.Ukrainian: {
		msgCreated: "Створено тестовий файл %s",
		msgBanner:  "Населення України за роками:",
		msgColumns: "Рік\t\tНаселення",
		msgRow:     "%s\t\t%d",
		msgWritten: "Результати записано у файл %s",
		msgMin:     "Мінімальне населення: %d (рік: %s)",
		msgMax:     "Максимальне населення: %d (рік: %s)",

		msgColType:       "Тип",
		msgColYear:       "Рік",
		msgColPopulation: "Населення",
		msgMinLabel:      "Мінімальне значення",
		msgMaxLabel:      "Максимальне значення",

		MsgNotFound:         "Помилка: Файл %s не знайдено",
		MsgPermissionDenied: "Помилка: Немає дозволу на доступ до файлу %s",
		MsgMalformedCSV:     "Помилка при обробці CSV файлу: %s",
		MsgUnexpected:       "Виникла непередбачена помилка: %s",
	},
}

var messages = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, string(key), msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// newPrinter returns a printer for lang. Unknown languages fall back to
// English.
func newPrinter(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if _, ok := translations[tag]; err != nil || !ok {
		tag = language.English
	}
	return message.NewPrinter(tag, message.Catalog(messages))
}
