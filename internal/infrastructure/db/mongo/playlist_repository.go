package mongo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

const collectionPlaylists = "playlists"

// PlaylistRepository stores one document per user. Playlist names are kept
// as array entries rather than keys, since user-chosen names may contain
// characters Mongo does not allow in field names.
type PlaylistRepository struct {
	col *mongo.Collection
}

func NewPlaylistRepository(db *mongo.Database) *PlaylistRepository {
	return &PlaylistRepository{col: db.Collection(collectionPlaylists)}
}

type playlistDoc struct {
	Username  string          `bson:"_id"`
	Playlists []namedPlaylist `bson:"playlists"`
}

type namedPlaylist struct {
	Name   string         `bson:"name"`
	Tracks []domain.Track `bson:"tracks"`
}

func (r *PlaylistRepository) Load(ctx context.Context, username string) (domain.Playlists, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc playlistDoc
	err := r.col.FindOne(ctx, bson.M{"_id": username}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Playlists{}, nil
		}
		return nil, fmt.Errorf("%w: find playlists: %v", domain.ErrStorageIO, err)
	}
	return fromDoc(doc), nil
}

func (r *PlaylistRepository) Save(ctx context.Context, username string, playlists domain.Playlists) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toDoc(username, playlists)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": username}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("%w: replace playlists: %v", domain.ErrStorageIO, err)
	}
	return nil
}

func toDoc(username string, playlists domain.Playlists) playlistDoc {
	names := make([]string, 0, len(playlists))
	for name := range playlists {
		names = append(names, name)
	}
	sort.Strings(names)

	doc := playlistDoc{Username: username, Playlists: make([]namedPlaylist, 0, len(names))}
	for _, name := range names {
		tracks := playlists[name]
		if tracks == nil {
			tracks = []domain.Track{}
		}
		doc.Playlists = append(doc.Playlists, namedPlaylist{Name: name, Tracks: tracks})
	}
	return doc
}

func fromDoc(doc playlistDoc) domain.Playlists {
	out := make(domain.Playlists, len(doc.Playlists))
	for _, p := range doc.Playlists {
		tracks := p.Tracks
		if tracks == nil {
			tracks = []domain.Track{}
		}
		out[p.Name] = tracks
	}
	return out
}
