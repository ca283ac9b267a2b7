package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julianstephens/confi/internal/constants"
)

// Key returns the storage key for one user's collection of the given kind,
// e.g. confi_<userID>_challenges.
func Key(userID, kind string) string {
	return constants.KeyPrefix + userID + "_" + kind
}

// Kinds lists every per-user collection kind.
var Kinds = []string{constants.KindChallenges, constants.KindAffirmations, constants.KindJournalEntries}

// ParseKey splits a collection key built by Key back into its user id and
// kind. It fails for the user directory and for unknown kinds.
func ParseKey(key string) (userID, kind string, ok bool) {
	rest, found := strings.CutPrefix(key, constants.KeyPrefix)
	if !found || key == constants.UsersKey {
		return "", "", false
	}
	for _, k := range Kinds {
		if id, found := strings.CutSuffix(rest, "_"+k); found && id != "" {
			return id, k, true
		}
	}
	return "", "", false
}

// LoadList decodes the JSON array stored under key. A missing key is an empty list.
func LoadList[T any](ctx context.Context, p Provider, key string) ([]T, error) {
	raw, found, err := p.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !found || raw == "" {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// SaveList overwrites key with the JSON encoding of items.
func SaveList[T any](ctx context.Context, p Provider, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}
	if err := p.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Collection is a per-user list of records of one kind. The user id is passed
// on every call; an empty id means nobody is signed in, so Load returns nothing
// and Save does nothing.
//
// Save is a full overwrite. Two writers racing on the same user and kind lose
// updates (last writer wins).
type Collection[T any] struct {
	store Provider
	kind  string
}

func NewCollection[T any](store Provider, kind string) *Collection[T] {
	return &Collection[T]{store: store, kind: kind}
}

func (c *Collection[T]) Load(ctx context.Context, userID string) ([]T, error) {
	if userID == "" {
		return []T{}, nil
	}
	return LoadList[T](ctx, c.store, Key(userID, c.kind))
}

func (c *Collection[T]) Save(ctx context.Context, userID string, items []T) error {
	if userID == "" {
		return nil
	}
	return SaveList(ctx, c.store, Key(userID, c.kind), items)
}
