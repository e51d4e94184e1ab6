// Package export renders collected contacts as a vCard 3.0 file.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-vcard"
)

const (
	ContentType = "text/vcard"
	Version     = "3.0"
)

// Contact is one exported card
type Contact struct {
	Name  string
	Phone string
}

// WriteVCards writes one card per contact, preserving order
func WriteVCards(w io.Writer, contacts []Contact) error {
	enc := vcard.NewEncoder(w)
	for i, c := range contacts {
		if err := enc.Encode(card(c)); err != nil {
			return fmt.Errorf("encode contact %d: %w", i, err)
		}
	}
	return nil
}

func card(c Contact) vcard.Card {
	card := vcard.Card{}
	card.SetValue(vcard.FieldVersion, Version)
	card.SetValue(vcard.FieldFormattedName, c.Name)
	card.Add(vcard.FieldTelephone, &vcard.Field{
		Value:  c.Phone,
		Params: vcard.Params{vcard.ParamType: {vcard.TypeCell}},
	})
	return card
}

// Filename stamps the export date onto the prefix, e.g. contacts-2026-10-16.vcf
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s.vcf", prefix, now.Format("2006-01-02"))
}
