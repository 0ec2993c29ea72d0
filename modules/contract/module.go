// Package contract registers the API-contract definition language.
//
// A contract declares payload schemas (with nested properties), messages
// carrying a schema as payload, and channels publishing or subscribing to
// messages. Compilation indexes the schemas, fills channel addresses and
// checks that every reference resolves and every schema is well shaped.
package contract

import (
	_ "embed"

	"github.com/specialistvlad/declc/internal/manifest"
	"github.com/specialistvlad/declc/internal/model"
	"github.com/specialistvlad/declc/internal/pass"
	"github.com/specialistvlad/declc/internal/registry"
	"github.com/specialistvlad/declc/internal/verify"
)

//go:embed manifest.hcl
var manifestSrc []byte

// Name is the registered language name.
const Name = "contract"

var (
	Schemas  = model.Path("schemas")
	Messages = model.Path("messages")
	Channels = model.Path("channels")
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the language with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Language())
}

// Language builds the contract language definition.
func Language() *registry.Language {
	def := manifest.MustParse(manifestSrc, "contract/manifest.hcl")

	allSchemas := model.MustPattern("schemas/**")
	uniqueness := pass.Info{After: []string{"unique_schemas", "unique_messages", "unique_channels", "unique_properties"}}

	return &registry.Language{
		Name:        def.Name,
		Description: def.Description,
		Root:        def.Root,
		Transformers: []pass.Transformer{
			{
				Info: pass.Info{Name: "normalize_channels", After: []string{"index_schemas"}},
				Fn:   normalizeChannels,
			},
			{
				Info: pass.Info{Name: "index_schemas"},
				Fn:   indexSchemas,
			},
		},
		Verifiers: []pass.Verifier{
			verify.Uniqueness("unique_schemas", model.MustPattern("schemas")),
			verify.Uniqueness("unique_messages", model.MustPattern("messages")),
			verify.Uniqueness("unique_channels", model.MustPattern("channels")),
			verify.Uniqueness("unique_properties", model.MustPattern("schemas/**/properties")),
			verify.Shape("schema_shapes", allSchemas, "type", map[string]verify.ShapeRule{
				"object": {RequireChildren: []string{"property"}, ForbidFields: []string{"items"}},
				"array":  {RequireFields: []string{"items"}, ForbidChildren: []string{"property"}},
			}, uniqueness),
			verify.RequiredSubset("required_subset", allSchemas, "required", "property",
				pass.Info{After: []string{"schema_shapes"}}),
			verify.Reference("message_payloads", []verify.Ref{
				{From: model.MustPattern("messages"), Field: "payload", To: Schemas},
			}, uniqueness),
			verify.Reference("channel_messages", []verify.Ref{
				{From: model.MustPattern("channels"), Field: "publish", To: Messages},
				{From: model.MustPattern("channels"), Field: "subscribe", To: Messages},
			}, pass.Info{After: []string{"message_payloads"}}),
			verify.Reference("array_items", []verify.Ref{
				{From: allSchemas, Field: "items", To: Schemas},
			}, uniqueness),
		},
	}
}
