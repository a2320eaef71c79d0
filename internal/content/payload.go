package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

type chaptersPayload struct {
	Chapters []chapterPayload `json:"chapters"`
}

type chapterPayload struct {
	ID              int    `json:"id"`
	RevelationPlace string `json:"revelation_place"`
	NameSimple      string `json:"name_simple"`
	NameArabic      string `json:"name_arabic"`
	VersesCount     int    `json:"verses_count"`
	TranslatedName  struct {
		Name string `json:"name"`
	} `json:"translated_name"`
}

type versePayload struct {
	Verse *verseBody `json:"verse"`
}

type verseBody struct {
	VerseNumber  int          `json:"verse_number"`
	VerseKey     string       `json:"verse_key"`
	PageNumber   int          `json:"page_number"`
	TextUthmani  string       `json:"text_uthmani"`
	CodeV2       string       `json:"code_v2"`
	Words        []wordBody   `json:"words"`
	Translations translations `json:"translations"`
}

type wordBody struct {
	ID           int    `json:"id"`
	Position     int    `json:"position"`
	PageNumber   int    `json:"page_number"`
	CodeV2       string `json:"code_v2"`
	TextQPCHafs  string `json:"text_qpc_hafs"`
	CharTypeName string `json:"char_type_name"`
	Translation  *struct {
		Text string `json:"text"`
	} `json:"translation"`
}

type translation struct {
	ResourceID int    `json:"resource_id"`
	Text       string `json:"text"`
}

// translationShape tags how the upstream encoded the translations field.
type translationShape int

const (
	shapeAbsent translationShape = iota
	shapeList
	shapeKeyed
)

// translations normalizes the field's three observed encodings: a list of
// objects, an object keyed by resource id whose values are objects or bare
// strings, and null or absent.
type translations struct {
	Shape translationShape
	Items []translation
}

func (t *translations) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = translations{Shape: shapeAbsent}
		return nil
	}

	switch data[0] {
	case '[':
		var items []translation
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*t = translations{Shape: shapeList, Items: items}
		return nil

	case '{':
		var keyed map[string]json.RawMessage
		if err := json.Unmarshal(data, &keyed); err != nil {
			return err
		}
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		items := make([]translation, 0, len(keyed))
		for _, k := range keys {
			id, err := strconv.Atoi(k)
			if err != nil {
				return fmt.Errorf("translation key %q is not a resource id", k)
			}
			item := translation{ResourceID: id}
			raw := bytes.TrimSpace(keyed[k])
			if len(raw) > 0 && raw[0] == '"' {
				if err := json.Unmarshal(raw, &item.Text); err != nil {
					return err
				}
			} else if err := json.Unmarshal(raw, &item); err != nil {
				return err
			}
			items = append(items, item)
		}
		*t = translations{Shape: shapeKeyed, Items: items}
		return nil
	}

	return fmt.Errorf("unexpected translations encoding starting with %q", data[0])
}

// pick returns the text of the preferred resource, else the first
// non-empty one.
func (t translations) pick(resourceID int) (string, bool) {
	for _, it := range t.Items {
		if it.ResourceID == resourceID && it.Text != "" {
			return it.Text, true
		}
	}
	for _, it := range t.Items {
		if it.Text != "" {
			return it.Text, true
		}
	}
	return "", false
}
