// Package lookup resolves an ISBN to descriptive book metadata using public
// APIs. It runs strictly upstream of the repository: callers look a book up
// first, then store the result. "Not found" is a normal outcome, not an
// error.
package lookup

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pcrawfurd/hoard/internal/catalog"
)

// Default service endpoints. Overridable for tests.
const (
	DefaultGoogleBooksURL = "https://www.googleapis.com/books/v1/volumes"
	DefaultOpenLibraryURL = "https://openlibrary.org/api/books"
)

// Client looks up book metadata by ISBN, trying Google Books first and
// falling back to Open Library.
type Client struct {
	HTTPClient     *http.Client
	APIKey         string // optional Google Books API key
	GoogleBooksURL string
	OpenLibraryURL string
}

// NewClient returns a lookup client with default endpoints and a bounded
// request timeout.
func NewClient(apiKey string) *Client {
	return &Client{
		HTTPClient:     &http.Client{Timeout: 10 * time.Second},
		APIKey:         apiKey,
		GoogleBooksURL: DefaultGoogleBooksURL,
		OpenLibraryURL: DefaultOpenLibraryURL,
	}
}

// Lookup fetches metadata for an ISBN. Returns (nil, nil) when no source
// knows the book. The ISBN is normalized (hyphens and spaces stripped)
// before querying.
func (c *Client) Lookup(isbn string) (*catalog.Book, error) {
	clean := CanonicalISBN(isbn)
	if clean == "" {
		return nil, fmt.Errorf("invalid isbn: %q", isbn)
	}

	book, err := c.fromGoogleBooks(clean)
	if err == nil && book != nil {
		return book, nil
	}

	// Open Library carries less data but covers titles Google misses.
	book, err2 := c.fromOpenLibrary(clean)
	if err2 == nil && book != nil {
		return book, nil
	}

	if err != nil {
		return nil, err
	}
	return nil, err2
}

// CanonicalISBN strips separators and validates the remaining characters.
// Returns the empty string when the input cannot be an ISBN.
func CanonicalISBN(isbn string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(isbn) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'x' || r == 'X':
			b.WriteByte('X')
		case r == '-' || r == ' ':
			// separator
		default:
			return ""
		}
	}
	s := b.String()
	if len(s) != 10 && len(s) != 13 {
		return ""
	}
	return s
}

// googleVolume mirrors the parts of a Google Books volume we use.
type googleVolume struct {
	VolumeInfo struct {
		Title         string   `json:"title"`
		Authors       []string `json:"authors"`
		Publisher     string   `json:"publisher"`
		PublishedDate string   `json:"publishedDate"`
		Description   string   `json:"description"`
		Categories    []string `json:"categories"`
		PageCount     int      `json:"pageCount"`
		Language      string   `json:"language"`
		ImageLinks    map[string]string `json:"imageLinks"`
	} `json:"volumeInfo"`
}

func (c *Client) fromGoogleBooks(isbn string) (*catalog.Book, error) {
	q := url.Values{}
	q.Set("q", "isbn:"+isbn)
	if c.APIKey != "" {
		q.Set("key", c.APIKey)
	}

	var payload struct {
		Items []googleVolume `json:"items"`
	}
	if err := c.getJSON(c.GoogleBooksURL+"?"+q.Encode(), &payload); err != nil {
		return nil, err
	}
	if len(payload.Items) == 0 {
		return nil, nil
	}

	info := payload.Items[0].VolumeInfo
	book := &catalog.Book{
		ISBN:          isbn,
		Title:         info.Title,
		Authors:       info.Authors,
		Publisher:     optional(info.Publisher),
		PublishedDate: optional(info.PublishedDate),
		Description:   optional(info.Description),
		Genres:        info.Categories,
		Language:      optional(info.Language),
	}
	if info.Title == "" {
		book.Title = "Unknown Title"
	}
	if info.PageCount > 0 {
		book.PageCount = &info.PageCount
	}

	// Prefer the largest cover available.
	for _, size := range []string{"large", "medium", "small", "thumbnail", "smallThumbnail"} {
		if link, ok := info.ImageLinks[size]; ok && link != "" {
			book.CoverURL = &link
			break
		}
	}

	return book, nil
}

// openLibraryEntry mirrors the parts of an Open Library record we use.
type openLibraryEntry struct {
	Title   string `json:"title"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Publishers []struct {
		Name string `json:"name"`
	} `json:"publishers"`
	PublishDate   string `json:"publish_date"`
	NumberOfPages int    `json:"number_of_pages"`
	Cover         struct {
		Large  string `json:"large"`
		Medium string `json:"medium"`
		Small  string `json:"small"`
	} `json:"cover"`
}

func (c *Client) fromOpenLibrary(isbn string) (*catalog.Book, error) {
	key := "ISBN:" + isbn

	q := url.Values{}
	q.Set("bibkeys", key)
	q.Set("format", "json")
	q.Set("jscmd", "data")

	payload := map[string]openLibraryEntry{}
	if err := c.getJSON(c.OpenLibraryURL+"?"+q.Encode(), &payload); err != nil {
		return nil, err
	}

	entry, ok := payload[key]
	if !ok {
		return nil, nil
	}

	book := &catalog.Book{
		ISBN:          isbn,
		Title:         entry.Title,
		PublishedDate: optional(entry.PublishDate),
	}
	if book.Title == "" {
		book.Title = "Unknown Title"
	}
	for _, a := range entry.Authors {
		if a.Name != "" {
			book.Authors = append(book.Authors, a.Name)
		}
	}
	if len(entry.Publishers) > 0 && entry.Publishers[0].Name != "" {
		book.Publisher = &entry.Publishers[0].Name
	}
	if entry.NumberOfPages > 0 {
		book.PageCount = &entry.NumberOfPages
	}
	for _, cover := range []string{entry.Cover.Large, entry.Cover.Medium, entry.Cover.Small} {
		if cover != "" {
			c := cover
			book.CoverURL = &c
			break
		}
	}

	return book, nil
}

// getJSON fetches a URL and decodes the JSON body.
func (c *Client) getJSON(rawURL string, dst any) error {
	resp, err := c.HTTPClient.Get(rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("lookup request failed: %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
