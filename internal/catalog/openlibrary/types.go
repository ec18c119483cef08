package openlibrary

import (
	"bytes"
	"encoding/json"
)

// searchResponse is the body of /search.json.
type searchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []searchDoc `json:"docs"`
}

type searchDoc struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title"`
	AuthorName          []string `json:"author_name"`
	CoverID             int64    `json:"cover_i"`
	FirstPublishYear    int      `json:"first_publish_year"`
	NumberOfPagesMedian int      `json:"number_of_pages_median"`
	Subject             []string `json:"subject"`
	FirstSentence       []string `json:"first_sentence"`
	ISBN                []string `json:"isbn"`
	CoverEditionKey     string   `json:"cover_edition_key"`
	RatingsAverage      float64  `json:"ratings_average"`
	Person              []string `json:"person"`
	Series              []string `json:"series"`
}

// searchFields limits the payload to what toBook reads.
const searchFields = "key,title,author_name,cover_i,first_publish_year,number_of_pages_median," +
	"subject,first_sentence,isbn,cover_edition_key,ratings_average,person,series"

// subjectResponse is the body of /subjects/{subject}.json.
type subjectResponse struct {
	Name      string        `json:"name"`
	WorkCount int           `json:"work_count"`
	Works     []subjectWork `json:"works"`
}

type subjectWork struct {
	Key              string      `json:"key"`
	Title            string      `json:"title"`
	Authors          []authorRef `json:"authors"`
	CoverID          int64       `json:"cover_id"`
	FirstPublishYear int         `json:"first_publish_year"`
	Description      textValue   `json:"description"`
}

type authorRef struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Edition is the body of /isbn/{isbn}.json.
type Edition struct {
	Title         string    `json:"title"`
	NumberOfPages int       `json:"number_of_pages"`
	PublishDate   string    `json:"publish_date"`
	Description   textValue `json:"description"`
}

// textValue accepts both "plain string" and {"type": "/type/text", "value": "..."}.
type textValue string

func (t *textValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = textValue(s)
		return nil
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*t = textValue(obj.Value)
	return nil
}
