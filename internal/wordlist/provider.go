package wordlist

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/verte-zerg/dictee/internal/model"
	"github.com/verte-zerg/dictee/internal/store"
)

var (
	// ErrUnknownList is returned when no list has the requested name.
	ErrUnknownList = errors.New("unknown word list")
	// ErrBuiltinList is returned when trying to remove a built-in list.
	ErrBuiltinList = errors.New("built-in word lists cannot be removed")
	// ErrInvalidName is returned for blank list names.
	ErrInvalidName = errors.New("word list name is required")
)

// Lists is the persistence used for user lists.
type Lists interface {
	SaveList(ctx context.Context, list model.WordList) error
	GetList(ctx context.Context, name string) (model.WordList, error)
	ListLists(ctx context.Context) ([]model.WordList, error)
	DeleteList(ctx context.Context, name string) error
}

// Provider resolves list names against user lists and the built-ins.
// A user list shadows a built-in list with the same name.
type Provider struct {
	lists Lists
}

// NewProvider returns a Provider. lists may be nil, in which case only the
// built-in lists are available.
func NewProvider(lists Lists) *Provider {
	return &Provider{lists: lists}
}

// All returns the built-in lists in display order followed by user lists
// sorted by name.
func (p *Provider) All(ctx context.Context) ([]model.WordList, error) {
	var user []model.WordList
	if p.lists != nil {
		var err error
		user, err = p.lists.ListLists(ctx)
		if err != nil {
			return nil, err
		}
	}
	shadowed := make(map[string]bool, len(user))
	for _, list := range user {
		shadowed[list.Name] = true
	}

	var out []model.WordList
	for _, list := range Builtins() {
		if !shadowed[list.Name] {
			out = append(out, list)
		}
	}
	sort.SliceStable(user, func(i, j int) bool { return user[i].Name < user[j].Name })
	return append(out, user...), nil
}

// Get returns the named list.
func (p *Provider) Get(ctx context.Context, name string) (model.WordList, error) {
	if p.lists != nil {
		list, err := p.lists.GetList(ctx, name)
		if err == nil {
			return list, nil
		}
		if !errors.Is(err, store.ErrListNotFound) {
			return model.WordList{}, err
		}
	}
	if list, ok := builtin(name); ok {
		return list, nil
	}
	return model.WordList{}, fmt.Errorf("%w: %q", ErrUnknownList, name)
}

// Save stores a user list.
func (p *Provider) Save(ctx context.Context, list model.WordList) error {
	list.Name = strings.TrimSpace(list.Name)
	if list.Name == "" {
		return ErrInvalidName
	}
	if len(list.Entries) == 0 {
		return ErrEmptyList
	}
	if p.lists == nil {
		return errors.New("no list storage configured")
	}
	list.Builtin = false
	return p.lists.SaveList(ctx, list)
}

// Remove deletes a user list. Removing a user list that shadows a built-in
// makes the built-in visible again.
func (p *Provider) Remove(ctx context.Context, name string) error {
	if p.lists != nil {
		err := p.lists.DeleteList(ctx, name)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrListNotFound) {
			return err
		}
	}
	if _, ok := builtin(name); ok {
		return ErrBuiltinList
	}
	return fmt.Errorf("%w: %q", ErrUnknownList, name)
}
