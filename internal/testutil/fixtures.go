package testutil

import (
	"FightSync/internal/model"
)

func floatPtr(f float64) *float64 { return &f }

// NewCompetitor 构造字段齐全的原始选手
func NewCompetitor(given, family, birthDate string) model.RawCompetitor {
	return model.RawCompetitor{
		Name:        given + " " + family,
		GivenName:   given,
		FamilyName:  family,
		BirthDate:   birthDate,
		BirthPlace:  "Baltimore, MD",
		Nationality: "USA",
		Image:       "https://cdn.example.com/BioImage_" + family + "_1.jpg",
		Weight:      &model.RawMeasure{Value: floatPtr(135), UnitText: "lbs"},
		Height:      &model.RawMeasure{Value: floatPtr(5.5), UnitText: "ft"},
		WorkLocation: &model.RawWorkLocation{
			AddressLocality: "Baltimore",
			AddressRegion:   "MD",
		},
	}
}

// NewRecord 构造一条两名选手的合法记录
func NewRecord(title, date, venue string) *model.RawRecord {
	return &model.RawRecord{
		Title:       title,
		Description: title + " description",
		Date:        date,
		URL:         "https://example.com/fights/" + title,
		Image:       "https://cdn.example.com/fight.jpg",
		Location: &model.RawLocation{
			Name:    venue,
			Address: "1 Arena Way",
			SameAs:  "https://example.com/venues/" + venue,
		},
		EventDescription: "Fight night",
		Competitors: []model.RawCompetitor{
			NewCompetitor("Gervonta", "Davis", "1994-11-07"),
			NewCompetitor("Ryan", "Garcia", "1998-08-08"),
		},
	}
}
