package i18n

// polish maps every English interface string to its Polish translation.
var polish = map[string]string{
	// page
	"Splitter": "Splitter",
	"Split shared expenses in proportion to what everyone brings in.": "Podziel wspólne wydatki proporcjonalnie do wkładu każdej osoby.",
	"Calculate": "Oblicz",
	"Save":      "Zapisz",
	"Reload":    "Wczytaj",
	"Language":  "Język",

	// ledger
	"Contributions":     "Wkłady",
	"Expenses":          "Wydatki",
	"Label":             "Nazwa",
	"Value":             "Kwota",
	"Nothing here yet.": "Nic tu jeszcze nie ma.",
	"Add":               "Dodaj",
	"Delete %s":         "Usuń %s",
	"Are you sure you want to delete this contribution?": "Czy na pewno chcesz usunąć ten wkład?",
	"Are you sure you want to delete this expense?":      "Czy na pewno chcesz usunąć ten wydatek?",

	// summary
	"Summary":                              "Podsumowanie",
	"Total contributions":                  "Suma wkładów",
	"Total expenses":                       "Suma wydatków",
	"Contributor":                          "Osoba",
	"Share":                                "Udział",
	"To pay":                               "Do zapłaty",
	"Add a contribution to see the split.": "Dodaj wkład, aby zobaczyć podział.",

	// notifications
	"Ledger saved": "Zapisano",
	"Stored ledger could not be read; starting empty": "Nie udało się odczytać zapisanych danych; zaczynamy od zera",
	"Could not save the ledger":                       "Nie udało się zapisać danych",
	"Could not update the ledger":                     "Nie udało się zaktualizować danych",
	"Invalid request body":                            "Nieprawidłowe żądanie",
	"Label and value are required":                    "Nazwa i kwota są wymagane",
	"Label must not be empty":                         "Nazwa nie może być pusta",
	"Unknown list":                                    "Nieznana lista",
	"Index must be an integer":                        "Indeks musi być liczbą całkowitą",
	"Rendering failed":                                "Błąd renderowania",
	"Too many requests, slow down.":                   "Zbyt wiele żądań, zwolnij.",
}
