package contract

import (
	"context"
	"errors"

	"github.com/specialistvlad/declc/internal/ctxlog"
	"github.com/specialistvlad/declc/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// SchemaIndexKey is the persisted key of the schema index.
const SchemaIndexKey = "contract/schema_index"

// SchemaIndex maps top-level schema names to their declared type.
type SchemaIndex struct {
	names []string
	types map[string]string
}

// Names returns the schema names in declaration order.
func (i *SchemaIndex) Names() []string {
	return append([]string(nil), i.names...)
}

// TypeOf returns the declared type of a schema.
func (i *SchemaIndex) TypeOf(name string) (string, bool) {
	t, ok := i.types[name]
	return t, ok
}

// Export returns the index as a name to type map.
func (i *SchemaIndex) Export() any {
	out := make(map[string]string, len(i.types))
	for k, v := range i.types {
		out[k] = v
	}
	return out
}

// Index reads the schema index of a compiled contract.
func Index(src model.PersistedReader) (*SchemaIndex, bool) {
	return model.PersistedAs[*SchemaIndex](src, SchemaIndexKey)
}

func indexSchemas(ctx context.Context, s *model.State) (*model.State, error) {
	idx := &SchemaIndex{types: make(map[string]string)}
	for _, e := range s.Entities(Schemas) {
		if _, seen := idx.types[e.ID()]; seen {
			continue
		}
		t, _ := e.StringField("type")
		idx.names = append(idx.names, e.ID())
		idx.types[e.ID()] = t
	}
	ctxlog.FromContext(ctx).Debug("Indexed schemas.", "count", len(idx.names))
	return s.WithPersisted(SchemaIndexKey, idx), nil
}

// normalizeChannels fills a missing channel address with the channel name.
func normalizeChannels(ctx context.Context, s *model.State) (*model.State, error) {
	if _, ok := Index(s); !ok {
		return nil, errors.New("schema index has not been built")
	}

	channels := s.Entities(Channels)
	if len(channels) == 0 {
		return s, nil
	}
	out := make([]*model.Entity, len(channels))
	filled := 0
	for i, ch := range channels {
		if _, ok := ch.StringField("address"); ok {
			out[i] = ch
			continue
		}
		out[i] = ch.WithField("address", cty.StringVal(ch.ID()))
		filled++
	}
	ctxlog.FromContext(ctx).Debug("Normalized channels.", "count", len(channels), "filled", filled)
	return s.WithEntities(Channels, out), nil
}
