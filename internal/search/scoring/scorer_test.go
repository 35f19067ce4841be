package scoring

import (
	"testing"

	"github.com/tunestream/tunestream/internal/media"
)

func artist(name string) media.Artist {
	return media.Artist{Base: media.Base{Name: name}}
}

func TestScoreItem_ExactMatch(t *testing.T) {
	scorer := NewDefault()
	cfg := DefaultConfig()

	tests := []struct {
		name  string
		item  string
		query string
	}{
		{"same case", "Beatles", "Beatles"},
		{"case insensitive", "Beatles", "beatles"},
		{"mixed case", "BEATLES", "bEaTlEs"},
		{"punctuation folded", "AC/DC", "ac dc"},
		{"diacritics folded", "Beyoncé", "beyonce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := scorer.ScoreItem(artist(tt.item), tt.query)
			if score != cfg.ExactMatch {
				t.Errorf("ScoreItem(%q, %q) = %f, want %f", tt.item, tt.query, score, cfg.ExactMatch)
			}
		})
	}
}

func TestScoreItem_EmptyInputs(t *testing.T) {
	scorer := NewDefault()

	tests := []struct {
		name  string
		item  string
		query string
	}{
		{"empty query", "Beatles", ""},
		{"whitespace query", "Beatles", "   "},
		{"punctuation only query", "Beatles", "?!..."},
		{"empty name", "", "beatles"},
		{"punctuation only name", "?!...", "beatles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if score := scorer.ScoreItem(artist(tt.item), tt.query); score != 0 {
				t.Errorf("ScoreItem(%q, %q) = %f, want 0", tt.item, tt.query, score)
			}
		})
	}
}

func TestScoreItem_Idempotent(t *testing.T) {
	scorer := NewDefault()
	item := artist("Pink Floyd")

	first := scorer.ScoreItem(item, "pink floyd")
	// Interleave a different query to force a cache rebuild.
	scorer.ScoreItem(artist("Ramones"), "ramones")
	second := scorer.ScoreItem(item, "pink floyd")

	if first != second {
		t.Errorf("repeated scoring differs: %f vs %f", first, second)
	}

	scorer.ClearCache()
	third := scorer.ScoreItem(item, "pink floyd")
	if first != third {
		t.Errorf("score changed after ClearCache: %f vs %f", first, third)
	}
}

func TestScoreItem_TierDominance(t *testing.T) {
	scorer := NewDefault()
	item := artist("Abbey Road")

	exact := scorer.ScoreItem(item, "abbey road")
	startsWith := scorer.ScoreItem(item, "abbey")
	wordBoundary := scorer.ScoreItem(item, "road")
	fuzzyTypo := scorer.ScoreItem(item, "abey road")
	baseline := scorer.ScoreItem(item, "zzzqqq")

	if !(exact > startsWith) {
		t.Errorf("exact (%f) must outscore starts-with (%f)", exact, startsWith)
	}
	if !(startsWith > wordBoundary) {
		t.Errorf("starts-with (%f) must outscore word-boundary (%f)", startsWith, wordBoundary)
	}
	if !(wordBoundary > fuzzyTypo) {
		t.Errorf("word-boundary (%f) must outscore fuzzy (%f)", wordBoundary, fuzzyTypo)
	}
	if !(fuzzyTypo > baseline) {
		t.Errorf("fuzzy (%f) must outscore baseline (%f)", fuzzyTypo, baseline)
	}
	if baseline != DefaultConfig().Baseline {
		t.Errorf("unmatched item = %f, want baseline %f", baseline, DefaultConfig().Baseline)
	}
}

func TestScoreItem_ReverseContains(t *testing.T) {
	scorer := NewDefault()
	cfg := DefaultConfig()

	// Query with extra stopwords around the candidate's name must not fall
	// through to the baseline.
	score := scorer.ScoreItem(artist("Ramones"), "the ramones")
	if score < cfg.ReverseContainsMatch {
		t.Errorf("ScoreItem(Ramones, 'the ramones') = %f, want >= %f", score, cfg.ReverseContainsMatch)
	}

	// Query with extra meaningful words around the candidate's name hits the
	// reverse-contains tier itself.
	score = scorer.ScoreItem(artist("Ramones"), "ramones greatest hits")
	if score != cfg.ReverseContainsMatch {
		t.Errorf("ScoreItem(Ramones, 'ramones greatest hits') = %f, want %f", score, cfg.ReverseContainsMatch)
	}

	// A query token equal to the candidate after stopword removal counts,
	// as long as it meets the minimum token length.
	score = scorer.ScoreItem(artist("The Who"), "who concert film")
	if score != cfg.ReverseContainsMatch {
		t.Errorf("ScoreItem(The Who, 'who concert film') = %f, want %f", score, cfg.ReverseContainsMatch)
	}

	// Tokens below the minimum length must not trigger the tier.
	score = scorer.ScoreItem(artist("The Xy"), "xy live album")
	if score >= cfg.ReverseContainsMatch {
		t.Errorf("short token matched reverse-contains: %f", score)
	}
}

func TestScoreItem_FuzzyTolerance(t *testing.T) {
	scorer := NewDefault()
	cfg := DefaultConfig()

	score := scorer.ScoreItem(artist("Beetles"), "Beatles")
	if score <= cfg.Baseline {
		t.Errorf("typo match = %f, want above baseline %f", score, cfg.Baseline)
	}
	if score <= cfg.NgramMatch+cfg.NgramScaleBand {
		t.Errorf("typo match = %f, want above any n-gram score (max %f)", score, cfg.NgramMatch+cfg.NgramScaleBand)
	}
	if score >= cfg.ContainsMatch {
		t.Errorf("typo match = %f, must stay below contains tier %f", score, cfg.ContainsMatch)
	}
}

func TestScoreItem_NgramPartial(t *testing.T) {
	scorer := NewDefault()
	cfg := DefaultConfig()

	// "radiohead" vs "radio head" shares most bigrams but no exact,
	// prefix or containment relation after tokenization... containment
	// actually fires on the concatenated form, so use a compound that only
	// overlaps partially.
	score := scorer.ScoreItem(artist("Soundgarden"), "gardensound")
	if score < cfg.NgramMatch || score > cfg.NgramMatch+cfg.NgramScaleBand {
		t.Errorf("compound overlap = %f, want within n-gram band [%f, %f]",
			score, cfg.NgramMatch, cfg.NgramMatch+cfg.NgramScaleBand)
	}
}

func TestScoreItem_StatusBonuses(t *testing.T) {
	scorer := NewDefault()
	cfg := DefaultConfig()

	base := media.Album{Base: media.Base{Name: "The Wall"}, Artists: []string{"Pink Floyd"}}
	inLibrary := base
	inLibrary.InLibrary = true

	plain := scorer.ScoreItem(base, "the wall")
	library := scorer.ScoreItem(inLibrary, "the wall")
	if diff := library - plain; diff != cfg.LibraryBonus {
		t.Errorf("library bonus diff = %f, want %f", diff, cfg.LibraryBonus)
	}

	favorite := base
	favorite.Favorite = true
	withFav := scorer.ScoreItem(favorite, "the wall")
	if diff := withFav - plain; diff != cfg.FavoriteBonus {
		t.Errorf("favorite bonus diff = %f, want %f", diff, cfg.FavoriteBonus)
	}

	both := favorite
	both.InLibrary = true
	withBoth := scorer.ScoreItem(both, "the wall")
	if diff := withBoth - plain; diff != cfg.LibraryBonus+cfg.FavoriteBonus {
		t.Errorf("combined bonus diff = %f, want %f", diff, cfg.LibraryBonus+cfg.FavoriteBonus)
	}
}

func TestScoreItem_ArtistFieldBonus(t *testing.T) {
	scorer := NewDefault()
	cfg := DefaultConfig()

	exactArtist := media.Album{Base: media.Base{Name: "Animals"}, Artists: []string{"Pink Floyd"}}
	partialArtist := media.Album{Base: media.Base{Name: "Animals"}, Artists: []string{"Pink Floyd Tribute Band"}}
	noArtist := media.Album{Base: media.Base{Name: "Animals"}}

	exact := scorer.ScoreItem(exactArtist, "pink floyd")
	partial := scorer.ScoreItem(partialArtist, "pink floyd")
	none := scorer.ScoreItem(noArtist, "pink floyd")

	if diff := exact - none; diff != cfg.ArtistExactBonus {
		t.Errorf("artist exact bonus diff = %f, want %f", diff, cfg.ArtistExactBonus)
	}
	if diff := partial - none; diff != cfg.ArtistPartialBonus {
		t.Errorf("artist partial bonus diff = %f, want %f", diff, cfg.ArtistPartialBonus)
	}
}

func TestScoreItem_TrackAlbumBonus(t *testing.T) {
	scorer := NewDefault()
	cfg := DefaultConfig()

	onAlbum := media.Track{
		Base:  media.Base{Name: "Money"},
		Album: &media.Album{Base: media.Base{Name: "Dark Side of the Moon"}},
	}
	noAlbum := media.Track{Base: media.Base{Name: "Money"}}

	with := scorer.ScoreItem(onAlbum, "dark side")
	without := scorer.ScoreItem(noAlbum, "dark side")
	if diff := with - without; diff != cfg.AlbumFieldBonus {
		t.Errorf("album field bonus diff = %f, want %f", diff, cfg.AlbumFieldBonus)
	}
}

func TestScoreItem_AudiobookBonuses(t *testing.T) {
	scorer := NewDefault()
	cfg := DefaultConfig()

	book := media.Audiobook{
		Base:      media.Base{Name: "The Colour of Magic"},
		Authors:   []string{"Terry Pratchett"},
		Narrators: []string{"Terry Pratchett", "Stephen Briggs"},
	}
	plain := media.Audiobook{Base: media.Base{Name: "The Colour of Magic"}}

	with := scorer.ScoreItem(book, "terry pratchett")
	without := scorer.ScoreItem(plain, "terry pratchett")

	// Authors match exactly, narrators contain the query.
	want := cfg.AuthorExactBonus + cfg.NarratorBonus
	if diff := with - without; diff != want {
		t.Errorf("audiobook bonus diff = %f, want %f", diff, want)
	}
}

func TestScoreItem_PodcastScanOrder(t *testing.T) {
	scorer := NewDefault()
	cfg := DefaultConfig()

	// Author matches exactly while publisher only contains the query: the
	// ordered scan must short-circuit on the exact match.
	podcast := media.Podcast{
		Base: media.Base{Name: "Global News Daily"},
		Meta: media.PodcastMeta{
			Author:    "Joe Rogan",
			Publisher: "Joe Rogan Productions",
		},
	}

	score := scorer.ScoreItem(podcast, "joe rogan")
	want := cfg.Baseline + cfg.CreatorExactBonus
	if score != want {
		t.Errorf("podcast scan score = %f, want %f (baseline + creator exact)", score, want)
	}
}

func TestScoreItem_PodcastDescriptionBonus(t *testing.T) {
	scorer := NewDefault()
	cfg := DefaultConfig()

	podcast := media.Podcast{
		Base: media.Base{Name: "Global News Daily"},
		Meta: media.PodcastMeta{
			Author:      "Joe Rogan",
			Description: "Conversations hosted by Joe Rogan about everything.",
		},
	}

	score := scorer.ScoreItem(podcast, "joe rogan")
	want := cfg.Baseline + cfg.CreatorExactBonus + cfg.DescriptionBonus
	if score != want {
		t.Errorf("podcast description score = %f, want %f", score, want)
	}
}

func TestScoreItem_PodcastProminenceFallback(t *testing.T) {
	scorer := NewDefault()
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		itemName string
		query    string
		want     float64
	}{
		{
			// Query "true crime stories" (18 runes, no stopwords) inside
			// name "true crime stories weekly edition" (33 runes): ratio
			// 18/33 ≈ 0.55 -> full creator-exact bonus on top of the
			// word-boundary primary tier.
			name:     "multi-word high prominence",
			itemName: "True Crime Stories Weekly Edition",
			query:    "true crime stories",
			want:     cfg.StartsWithMatch + cfg.CreatorExactBonus,
		},
		{
			// Single-word query falls back to the flat description bonus.
			name:     "single word fallback",
			itemName: "Weekly Crime Stories",
			query:    "crime",
			want:     cfg.WordBoundaryMatch + cfg.DescriptionBonus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			podcast := media.Podcast{Base: media.Base{Name: tt.itemName}}
			score := scorer.ScoreItem(podcast, tt.query)
			if score != tt.want {
				t.Errorf("ScoreItem(%q, %q) = %f, want %f", tt.itemName, tt.query, score, tt.want)
			}
		})
	}
}

func TestScoreItem_UnhandledTypesGetNoBonus(t *testing.T) {
	scorer := NewDefault()
	cfg := DefaultConfig()

	radio := media.Radio{Base: media.Base{Name: "Jazz FM"}}
	if score := scorer.ScoreItem(radio, "jazz fm"); score != cfg.ExactMatch {
		t.Errorf("radio score = %f, want bare primary tier %f", score, cfg.ExactMatch)
	}

	playlist := media.Playlist{Base: media.Base{Name: "Jazz FM"}, Owner: "someone"}
	if score := scorer.ScoreItem(playlist, "jazz fm"); score != cfg.ExactMatch {
		t.Errorf("playlist score = %f, want bare primary tier %f", score, cfg.ExactMatch)
	}
}

func TestScoreItem_RankingScenario(t *testing.T) {
	scorer := NewDefault()

	exactFavorite := media.Artist{Base: media.Base{Name: "Pink Floyd", Favorite: true}}
	typo := artist("Pink Flyod")
	album := media.Album{
		Base:      media.Base{Name: "A Foot in the Door: The Best of Pink Floyd"},
		Artists:   []string{"Pink Floyd"},
		InLibrary: true,
	}

	query := "pink floyd"
	exactScore := scorer.ScoreItem(exactFavorite, query)
	albumScore := scorer.ScoreItem(album, query)
	typoScore := scorer.ScoreItem(typo, query)

	if !(exactScore > albumScore) {
		t.Errorf("exact favorite (%f) must outrank album (%f)", exactScore, albumScore)
	}
	if !(albumScore > typoScore) {
		t.Errorf("album with bonuses (%f) must outrank typo (%f)", albumScore, typoScore)
	}
	if typoScore <= 0 {
		t.Errorf("typo item must stay above zero, got %f", typoScore)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}

	broken := DefaultConfig()
	broken.ContainsMatch = broken.StartsWithMatch + 1
	if err := broken.Validate(); err == nil {
		t.Error("expected tier-ordering violation to be rejected")
	}

	badThreshold := DefaultConfig()
	badThreshold.FuzzyHighThreshold = 1.5
	if err := badThreshold.Validate(); err == nil {
		t.Error("expected out-of-range threshold to be rejected")
	}

	badBand := DefaultConfig()
	badBand.FuzzyScaleBand = 100
	if err := badBand.Validate(); err == nil {
		t.Error("expected oversized fuzzy band to be rejected")
	}

	negativeBaseline := DefaultConfig()
	negativeBaseline.Baseline = -1
	if err := negativeBaseline.Validate(); err == nil {
		t.Error("expected negative baseline to be rejected")
	}
}
