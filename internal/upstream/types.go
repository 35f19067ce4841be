package upstream

import (
	"encoding/json"

	"github.com/tunestream/tunestream/internal/media"
)

// commandEnvelope is a JSON command sent to the music server.
type commandEnvelope struct {
	MessageID string `json:"message_id"`
	Command   string `json:"command"`
	Args      any    `json:"args,omitempty"`
}

// responseEnvelope is a JSON response from the music server, matched to its
// command by message ID.
type responseEnvelope struct {
	MessageID string          `json:"message_id"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     *serverError    `json:"error,omitempty"`
}

type serverError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type searchArgs struct {
	SearchQuery string `json:"search_query"`
	Limit       int    `json:"limit"`
}

// itemRef is a name-only reference embedded in another item.
type itemRef struct {
	Name string `json:"name"`
}

// wireMeta carries the optional descriptive fields of podcast-like items.
type wireMeta struct {
	Author      string `json:"author"`
	Publisher   string `json:"publisher"`
	Owner       string `json:"owner"`
	Creator     string `json:"creator"`
	Description string `json:"description"`
}

// wireItem is the upstream representation of any media item.
type wireItem struct {
	MediaType string    `json:"media_type"`
	Name      string    `json:"name"`
	Favorite  bool      `json:"favorite"`
	Artists   []itemRef `json:"artists,omitempty"`
	Album     *itemRef  `json:"album,omitempty"`
	InLibrary bool      `json:"in_library,omitempty"`
	Owner     string    `json:"owner,omitempty"`
	Authors   []string  `json:"authors,omitempty"`
	Narrators []string  `json:"narrators,omitempty"`
	Metadata  *wireMeta `json:"metadata,omitempty"`
}

// searchResultPayload groups upstream search results by media type.
type searchResultPayload struct {
	Artists         []wireItem `json:"artists"`
	Albums          []wireItem `json:"albums"`
	Tracks          []wireItem `json:"tracks"`
	Playlists       []wireItem `json:"playlists"`
	Audiobooks      []wireItem `json:"audiobooks"`
	Podcasts        []wireItem `json:"podcasts"`
	PodcastEpisodes []wireItem `json:"podcast_episodes"`
	Radio           []wireItem `json:"radio"`
}

// items flattens the grouped payload into media items, preserving the
// upstream group order.
func (p searchResultPayload) items() []media.Item {
	groups := [][]wireItem{
		p.Artists, p.Albums, p.Tracks, p.Playlists,
		p.Audiobooks, p.Podcasts, p.PodcastEpisodes, p.Radio,
	}
	var out []media.Item
	for _, group := range groups {
		for _, w := range group {
			if item, ok := w.toMedia(); ok {
				out = append(out, item)
			}
		}
	}
	return out
}

// toMedia converts a wire item into its typed media representation. Unknown
// media types are skipped rather than treated as errors.
func (w wireItem) toMedia() (media.Item, bool) {
	base := media.Base{Name: w.Name, Favorite: w.Favorite}

	switch media.Type(w.MediaType) {
	case media.TypeArtist:
		return media.Artist{Base: base}, true
	case media.TypeAlbum:
		return media.Album{Base: base, Artists: refNames(w.Artists), InLibrary: w.InLibrary}, true
	case media.TypeTrack:
		track := media.Track{Base: base, Artists: refNames(w.Artists)}
		if w.Album != nil {
			track.Album = &media.Album{Base: media.Base{Name: w.Album.Name}}
		}
		return track, true
	case media.TypePlaylist:
		return media.Playlist{Base: base, Owner: w.Owner}, true
	case media.TypeAudiobook:
		return media.Audiobook{Base: base, Authors: w.Authors, Narrators: w.Narrators}, true
	case media.TypePodcast:
		return media.Podcast{Base: base, Meta: w.meta()}, true
	case media.TypePodcastEpisode:
		return media.PodcastEpisode{Base: base, Meta: w.meta()}, true
	case media.TypeRadio:
		return media.Radio{Base: base}, true
	default:
		return nil, false
	}
}

func (w wireItem) meta() media.PodcastMeta {
	if w.Metadata == nil {
		return media.PodcastMeta{}
	}
	return media.PodcastMeta{
		Author:      w.Metadata.Author,
		Publisher:   w.Metadata.Publisher,
		Owner:       w.Metadata.Owner,
		Creator:     w.Metadata.Creator,
		Description: w.Metadata.Description,
	}
}

func refNames(refs []itemRef) []string {
	if len(refs) == 0 {
		return nil
	}
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		if r.Name != "" {
			names = append(names, r.Name)
		}
	}
	return names
}
