package dto

// Page is the list envelope: total count, optional next/previous page
// links and the page of results.
type Page struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}
