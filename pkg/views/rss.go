package views

import (
	"encoding/xml"
	"io"
	"time"
)

// RSS view data keys.
const (
	RSSTitleKey       = "title"
	RSSLinkKey        = "link"
	RSSDescriptionKey = "description"
	RSSItemsKey       = "items"
)

// RSSItem is one feed entry, set by controllers under the "items" key
// as []RSSItem.
type RSSItem struct {
	Title       string
	Link        string
	Description string
	GUID        string
	PubDate     time.Time
}

// RSS renders response data as an RSS 2.0 feed.
type RSS struct{}

// NewRSS returns an RSS 2.0 view.
func NewRSS() *RSS { return &RSS{} }

func (v *RSS) ContentType() string { return "application/rss+xml; charset=utf-8" }

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string       `xml:"title"`
	Link        string       `xml:"link"`
	Description string       `xml:"description"`
	Items       []rssDocItem `xml:"item"`
}

type rssDocItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description,omitempty"`
	GUID        string `xml:"guid,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
}

func (v *RSS) Render(w io.Writer, data map[string]any, _ string) error {
	doc := rssDoc{
		Version: "2.0",
		Channel: rssChannel{
			Title:       str(data[RSSTitleKey]),
			Link:        str(data[RSSLinkKey]),
			Description: str(data[RSSDescriptionKey]),
		},
	}
	if items, ok := data[RSSItemsKey].([]RSSItem); ok {
		for _, it := range items {
			out := rssDocItem{
				Title:       it.Title,
				Link:        it.Link,
				Description: it.Description,
				GUID:        it.GUID,
			}
			if !it.PubDate.IsZero() {
				out.PubDate = it.PubDate.Format(time.RFC1123Z)
			}
			doc.Channel.Items = append(doc.Channel.Items, out)
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
