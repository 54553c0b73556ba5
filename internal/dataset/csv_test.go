// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadAnime(t *testing.T) {
	input := `anime_id,name,genre,type,episodes,rating,members
32281,Kimi no Na wa.,"Drama, Romance, School, Supernatural",Movie,1,9.37,200630
5114,Fullmetal Alchemist: Brotherhood,"Action, Adventure, Drama",TV,64,9.26,793665
not-a-number,Broken,Action,TV,1,1.0,1
9253,,Sci-Fi,TV,24,9.17,673572
28977,Gintama°,"Action, Comedy",TV,51
`
	anime, stats, err := ReadAnime(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAnime() error = %v", err)
	}

	if len(anime) != 2 {
		t.Fatalf("len(anime) = %d, want 2: %+v", len(anime), anime)
	}
	if anime[0] != (Anime{ID: 32281, Name: "Kimi no Na wa."}) {
		t.Errorf("anime[0] = %+v", anime[0])
	}
	if anime[1].Name != "Fullmetal Alchemist: Brotherhood" {
		t.Errorf("anime[1].Name = %q", anime[1].Name)
	}
	if stats.Rows != 5 || stats.Kept != 2 || stats.Dropped != 3 {
		t.Errorf("stats = %+v, want rows=5 kept=2 dropped=3", stats)
	}
}

func TestReadAnime_NamesVerbatim(t *testing.T) {
	input := "anime_id,name\n1,Trigun\n 2 ,Trigun \n3, Trigun\n"
	anime, stats, err := ReadAnime(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAnime() error = %v", err)
	}

	want := []Anime{{ID: 1, Name: "Trigun"}, {ID: 2, Name: "Trigun "}, {ID: 3, Name: " Trigun"}}
	if len(anime) != len(want) {
		t.Fatalf("anime = %+v, want %+v", anime, want)
	}
	for i := range want {
		if anime[i] != want[i] {
			t.Errorf("anime[%d] = %+v, want %+v", i, anime[i], want[i])
		}
	}
	if stats.Dropped != 0 {
		t.Errorf("dropped = %d, want 0", stats.Dropped)
	}
}

func TestReadRatings(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        []Rating
		wantDropped int
		wantErr     error
	}{
		{
			name:  "standard column order",
			input: "user_id,anime_id,rating\n1,20,-1\n1,24,8\n2,20,7.5\n",
			want: []Rating{
				{UserID: 1, AnimeID: 20, Rating: -1},
				{UserID: 1, AnimeID: 24, Rating: 8},
				{UserID: 2, AnimeID: 20, Rating: 7.5},
			},
		},
		{
			name:  "reordered and extra columns",
			input: "rating,timestamp,anime_id,user_id\n9,1700000000,5114,42\n",
			want:  []Rating{{UserID: 42, AnimeID: 5114, Rating: 9}},
		},
		{
			name:  "header with BOM and spaces",
			input: "\ufeffuser_id, anime_id ,rating\n3,4,5\n",
			want:  []Rating{{UserID: 3, AnimeID: 4, Rating: 5}},
		},
		{
			name:        "malformed rows dropped",
			input:       "user_id,anime_id,rating\n1,x,5\n1,2\n1,2,abc\n1,2,3\n",
			want:        []Rating{{UserID: 1, AnimeID: 2, Rating: 3}},
			wantDropped: 3,
		},
		{
			name:  "padded numeric cells",
			input: "user_id,anime_id,rating\n 5 , 6 , 7.5 \n",
			want:  []Rating{{UserID: 5, AnimeID: 6, Rating: 7.5}},
		},
		{
			name:        "non-finite ratings dropped",
			input:       "user_id,anime_id,rating\n2,2,NaN\n1,4,Inf\n1,5,-Inf\n3,6,infinity\n4,7,1e400\n1,3,6\n",
			want:        []Rating{{UserID: 1, AnimeID: 3, Rating: 6}},
			wantDropped: 5,
		},
		{
			name:  "header only",
			input: "user_id,anime_id,rating\n",
			want:  nil,
		},
		{
			name:    "missing rating column",
			input:   "user_id,anime_id,score\n1,2,3\n",
			wantErr: ErrSchemaMismatch,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrSchemaMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stats, err := ReadRatings(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadRatings() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d ratings, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("rating[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
			if stats.Dropped != tt.wantDropped {
				t.Errorf("dropped = %d, want %d", stats.Dropped, tt.wantDropped)
			}
		})
	}
}

func TestReadRatings_MissingColumnsNamed(t *testing.T) {
	_, _, err := ReadRatings(strings.NewReader("anime_id\n1\n"))
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("error = %v, want ErrSchemaMismatch", err)
	}
	for _, col := range []string{"user_id", "rating"} {
		if !strings.Contains(err.Error(), col) {
			t.Errorf("error %q should name missing column %q", err, col)
		}
	}
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	animePath := filepath.Join(dir, "anime.csv")
	ratingsPath := filepath.Join(dir, "rating.csv")
	writeFile(t, animePath, "anime_id,name\n1,A\n2,B\n")
	writeFile(t, ratingsPath, "user_id,anime_id,rating\n1,1,10\n")

	anime, _, err := LoadAnimeFile(animePath)
	if err != nil || len(anime) != 2 {
		t.Errorf("LoadAnimeFile() = %v, %v", anime, err)
	}
	ratings, _, err := LoadRatingsFile(ratingsPath)
	if err != nil || len(ratings) != 1 {
		t.Errorf("LoadRatingsFile() = %v, %v", ratings, err)
	}

	if _, _, err := LoadRatingsFile(filepath.Join(dir, "missing.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
