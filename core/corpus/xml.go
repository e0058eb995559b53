package corpus

import (
	"io"
	"strconv"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/GuessTheSurah/core/errors"
	"github.com/FocuswithJustin/GuessTheSurah/core/quran"
)

// Tanzil XML layout:
//
//	<quran>
//	  <sura index="1" name="الفاتحة">
//	    <aya index="1" text="..."/>
//	  </sura>
//	</quran>
var (
	suraExpr = xpath.MustCompile("//sura")
	ayaExpr  = xpath.MustCompile("aya")
)

// ParseXML reads the Tanzil XML distribution. The sura "name" attributes are
// returned as a Names table (empty if the file carries none). The separate
// "bismillah" attribute is not part of the ayah text and is ignored.
func ParseXML(r io.Reader) ([]quran.Ayah, Names, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, nil, &errors.ParseError{Format: "corpus XML", Message: err.Error(), Err: errors.ErrInvalidInput}
	}

	var a assembler
	names := make(Names)

	for _, sura := range xmlquery.QuerySelectorAll(doc, suraExpr) {
		surah, err := strconv.Atoi(sura.SelectAttr("index"))
		if err != nil {
			return nil, nil, errors.NewParse("corpus XML", "", "sura without numeric index")
		}
		if name := sura.SelectAttr("name"); name != "" {
			names[surah] = name
		}

		for _, aya := range xmlquery.QuerySelectorAll(sura, ayaExpr) {
			n, err := strconv.Atoi(aya.SelectAttr("index"))
			if err != nil {
				return nil, nil, errors.NewParse("corpus XML", "", "aya without numeric index in sura "+strconv.Itoa(surah))
			}
			ref := quran.Ref(surah, n)
			if !ref.Valid() {
				return nil, nil, errors.NewParse("corpus XML", "", "reference out of range: "+ref.String())
			}
			if err := a.add(ref, aya.SelectAttr("text")); err != nil {
				return nil, nil, err
			}
		}
	}

	if len(a.ayahs) == 0 {
		return nil, nil, errors.NewParse("corpus XML", "", "no aya elements found")
	}
	return a.ayahs, names, nil
}
