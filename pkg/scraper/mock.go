package scraper

import (
	"fmt"
	"os"
	"time"

	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/models"
)

// Synthetic hierarchy data served when the portal is unreachable and
// mock mode is enabled. Codes follow the portal's conventions so the
// rest of the pipeline behaves identically with real or mock data.

var mockCourtNames = []string{
	"District Judge Court",
	"Additional District Judge Court",
	"Civil Judge Senior Division",
	"Civil Judge Junior Division",
	"Chief Judicial Magistrate Court",
}

func mockStates() []models.State {
	return []models.State{
		{Code: "1", Name: "Delhi"},
		{Code: "2", Name: "Maharashtra"},
		{Code: "3", Name: "Karnataka"},
		{Code: "4", Name: "Tamil Nadu"},
		{Code: "5", Name: "Uttar Pradesh"},
	}
}

func mockDistricts(stateCode string) []models.District {
	districts := make([]models.District, 0, 3)
	for i := 1; i <= 3; i++ {
		districts = append(districts, models.District{
			Code: fmt.Sprintf("%s_D%02d", stateCode, i),
			Name: fmt.Sprintf("District %d", i),
		})
	}
	return districts
}

func mockComplexes(districtCode string) []models.CourtComplex {
	complexes := make([]models.CourtComplex, 0, 2)
	for i := 1; i <= 2; i++ {
		complexes = append(complexes, models.CourtComplex{
			Code: fmt.Sprintf("%s_X%02d", districtCode, i),
			Name: fmt.Sprintf("Court Complex %d", i),
		})
	}
	return complexes
}

func mockCourts(complexCode string) []models.Court {
	courts := make([]models.Court, 0, len(mockCourtNames))
	for i, name := range mockCourtNames {
		courts = append(courts, models.Court{
			Code: fmt.Sprintf("%s_C%02d", complexCode, i+1),
			Name: name,
		})
	}
	return courts
}

// writeSyntheticCauseList writes a plain-text stand-in for a cause list
// PDF, used in mock mode so downloads and archives can be exercised
// without portal access.
func writeSyntheticCauseList(path string, court models.Court, date string) error {
	content := fmt.Sprintf(`CAUSE LIST
==========

Court: %s (%s)
Date: %s
Generated: %s

Sr.No.  Case Number        Party Names                    Purpose
------  -----------        -----------                    -------
1       CS/101/2024        State vs. Accused              Hearing
2       CS/102/2024        Petitioner vs. Respondent      Arguments
3       CRL/201/2024       State vs. Accused              Evidence
4       CS/103/2024        Plaintiff vs. Defendant        Final Order

This is a synthetic cause list generated in mock mode.
`, court.Name, court.Code, date, time.Now().Format(time.RFC3339))

	return os.WriteFile(path, []byte(content), 0o644)
}
