// SPDX-License-Identifier: MIT

package tmdb

import "encoding/json"

// Window is the trending aggregation period accepted by the upstream API.
type Window string

const (
	WindowDay  Window = "day"
	WindowWeek Window = "week"
)

// NormalizeWindow maps arbitrary caller input onto a valid Window. Anything
// that is not "week" degrades to "day".
func NormalizeWindow(s string) Window {
	if s == string(WindowWeek) {
		return WindowWeek
	}
	return WindowDay
}

// Movie is a movie-shaped trending record as returned by TMDB.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	ReleaseDate      string  `json:"release_date"`
	GenreIDs         []int   `json:"genre_ids"`
	BackdropPath     *string `json:"backdrop_path"`
	PosterPath       *string `json:"poster_path"`
	Adult            bool    `json:"adult"`
	OriginalLanguage string  `json:"original_language"`
	OriginalTitle    string  `json:"original_title"`
	Video            bool    `json:"video"`
}

// Show is a TV-shaped trending record. Note the field naming differences to
// Movie: name vs. title, first_air_date vs. release_date.
type Show struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Overview         string   `json:"overview"`
	Popularity       float64  `json:"popularity"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	FirstAirDate     string   `json:"first_air_date"`
	GenreIDs         []int    `json:"genre_ids"`
	BackdropPath     *string  `json:"backdrop_path"`
	PosterPath       *string  `json:"poster_path"`
	Adult            bool     `json:"adult"`
	OriginalLanguage string   `json:"original_language"`
	OriginalName     string   `json:"original_name"`
	OriginCountry    []string `json:"origin_country"`
}

// MediaType tags a combined-endpoint record.
type MediaType string

const (
	MediaMovie   MediaType = "movie"
	MediaTV      MediaType = "tv"
	MediaUnknown MediaType = ""
)

// Record is a tagged variant from the combined /trending/all endpoint.
// Exactly one of Movie or Show is set for the movie/tv media types; records
// of any other type (e.g. person) decode with both nil and are skipped by
// the client.
type Record struct {
	Type  MediaType
	Movie *Movie
	Show  *Show
}

// UnmarshalJSON discriminates a raw record. The upstream media_type tag is
// authoritative; the movie-only title field is a fallback heuristic for
// payloads that omit the tag.
func (r *Record) UnmarshalJSON(data []byte) error {
	var probe struct {
		MediaType string          `json:"media_type"`
		Title     json.RawMessage `json:"title"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	mediaType := MediaType(probe.MediaType)
	if mediaType == MediaUnknown {
		if probe.Title != nil {
			mediaType = MediaMovie
		} else {
			mediaType = MediaTV
		}
	}

	switch mediaType {
	case MediaMovie:
		var m Movie
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		r.Type = MediaMovie
		r.Movie = &m
	case MediaTV:
		var s Show
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		r.Type = MediaTV
		r.Show = &s
	default:
		// person, collection, ... carried as-is so callers can skip it.
		r.Type = mediaType
	}
	return nil
}

// page mirrors the upstream paging envelope.
type page[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}
