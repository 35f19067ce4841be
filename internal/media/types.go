// Package media defines the searchable media item types returned by the
// upstream music server.
package media

import "strings"

// Type identifies the kind of a media item.
type Type string

const (
	TypeArtist         Type = "artist"
	TypeAlbum          Type = "album"
	TypeTrack          Type = "track"
	TypePlaylist       Type = "playlist"
	TypeAudiobook      Type = "audiobook"
	TypePodcast        Type = "podcast"
	TypePodcastEpisode Type = "podcast_episode"
	TypeRadio          Type = "radio"
)

// Item is the capability set shared by every searchable entity.
type Item interface {
	ItemName() string
	MediaType() Type
	IsFavorite() bool
}

// Base holds the attributes common to all media items.
type Base struct {
	Name     string `json:"name"`
	Favorite bool   `json:"favorite"`
}

// ItemName returns the display name used as the primary match target.
func (b Base) ItemName() string { return b.Name }

// IsFavorite reports whether the item is flagged as a favorite.
func (b Base) IsFavorite() bool { return b.Favorite }

// Artist is a music artist.
type Artist struct {
	Base
}

func (Artist) MediaType() Type { return TypeArtist }

// Album is a music album.
type Album struct {
	Base
	Artists   []string `json:"artists,omitempty"`
	InLibrary bool     `json:"inLibrary"`
}

func (Album) MediaType() Type { return TypeAlbum }

// ArtistsString returns the album's artist names flattened into one string.
func (a Album) ArtistsString() string { return strings.Join(a.Artists, ", ") }

// Track is a single track, optionally linked to its containing album.
type Track struct {
	Base
	Artists []string `json:"artists,omitempty"`
	Album   *Album   `json:"album,omitempty"`
}

func (Track) MediaType() Type { return TypeTrack }

// ArtistsString returns the track's artist names flattened into one string.
func (t Track) ArtistsString() string { return strings.Join(t.Artists, ", ") }

// Playlist is a user playlist.
type Playlist struct {
	Base
	Owner string `json:"owner,omitempty"`
}

func (Playlist) MediaType() Type { return TypePlaylist }

// Audiobook is an audiobook with author and narrator credits.
type Audiobook struct {
	Base
	Authors   []string `json:"authors,omitempty"`
	Narrators []string `json:"narrators,omitempty"`
}

func (Audiobook) MediaType() Type { return TypeAudiobook }

// AuthorsString returns the audiobook's authors flattened into one string.
func (a Audiobook) AuthorsString() string { return strings.Join(a.Authors, ", ") }

// NarratorsString returns the audiobook's narrators flattened into one string.
func (a Audiobook) NarratorsString() string { return strings.Join(a.Narrators, ", ") }

// PodcastMeta holds the optional descriptive fields carried by podcasts and
// podcast episodes. The field order of the creator scan is Author, Publisher,
// Owner, Creator.
type PodcastMeta struct {
	Author      string `json:"author,omitempty"`
	Publisher   string `json:"publisher,omitempty"`
	Owner       string `json:"owner,omitempty"`
	Creator     string `json:"creator,omitempty"`
	Description string `json:"description,omitempty"`
}

// CreatorFields returns the creator-like fields in scan order.
func (m PodcastMeta) CreatorFields() []string {
	return []string{m.Author, m.Publisher, m.Owner, m.Creator}
}

// Podcast is a podcast show.
type Podcast struct {
	Base
	Meta PodcastMeta `json:"metadata"`
}

func (Podcast) MediaType() Type { return TypePodcast }

// PodcastEpisode is a single episode of a podcast.
type PodcastEpisode struct {
	Base
	Meta PodcastMeta `json:"metadata"`
}

func (PodcastEpisode) MediaType() Type { return TypePodcastEpisode }

// Radio is an internet radio station.
type Radio struct {
	Base
}

func (Radio) MediaType() Type { return TypeRadio }
