// Package engine compiles templates into renderers and renders them.
//
// An [Environment] loads template sources through a [loader.Loader], compiles them
// into [Module] values kept in an LFU cache and links them with their ancestors into
// [Template] values. Compiled renderer source can be shared between processes through
// a [tmpstore.Store].
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/Drolfothesgnir/gohaa/codegen"
	"github.com/Drolfothesgnir/gohaa/loader"
	"github.com/Drolfothesgnir/gohaa/parsing"
	"github.com/Drolfothesgnir/gohaa/runtime"
	"github.com/Drolfothesgnir/gohaa/structure"
	"github.com/Drolfothesgnir/gohaa/tmpstore"
)

// DefaultCacheSize is the number of modules kept in memory by default.
const DefaultCacheSize = 100

// ErrNoLoader is returned when templates are requested by name from an environment without a loader.
var ErrNoLoader = errors.New("no template loader configured")

// Option configures an [Environment].
type Option func(*Environment) error

// WithLoader sets the source of named templates.
func WithLoader(l loader.Loader) Option {
	return func(env *Environment) error {
		env.loader = l
		return nil
	}
}

// WithEncoding sets the output encoding of rendered templates.
func WithEncoding(encoding string) Option {
	return func(env *Environment) error {
		if _, err := runtime.LookupEncoding(encoding); err != nil {
			return fmt.Errorf("output encoding %q: %w", encoding, err)
		}
		env.encoding = encoding
		return nil
	}
}

// WithIndent sets the indentation of the generated renderer source.
func WithIndent(indent string) Option {
	return func(env *Environment) error {
		if indent == "" {
			return errors.New("indent must not be empty")
		}
		env.indent = indent
		return nil
	}
}

// WithCacheSize sets the size of the module cache, see [Cache].
func WithCacheSize(size, checkEvery int) Option {
	return func(env *Environment) error {
		if size < 1 {
			return fmt.Errorf("cache size must be positive, got %d", size)
		}
		env.cacheSize = size
		env.checkEvery = checkEvery
		return nil
	}
}

// WithAutoReload makes the environment check template versions on every use
// and recompile changed templates.
func WithAutoReload(autoReload bool) Option {
	return func(env *Environment) error {
		env.autoReload = autoReload
		return nil
	}
}

// WithRendererStore keeps generated renderer source in store for ttl.
func WithRendererStore(store tmpstore.Store, ttl time.Duration) Option {
	return func(env *Environment) error {
		env.renderers = store
		env.rendererTTL = ttl
		return nil
	}
}

// WithWarnings configures the warnings collected while parsing, see [parsing.WithWarnings].
func WithWarnings(policy parsing.WarningOverflowPolicy, cap int) Option {
	return func(env *Environment) error {
		if _, err := parsing.NewWarnings(policy, cap); err != nil {
			return err
		}
		env.parseOpts = []parsing.Option{parsing.WithWarnings(policy, cap)}
		return nil
	}
}

// WithLogger replaces the global logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(env *Environment) error {
		env.logger = logger
		return nil
	}
}

// Environment compiles, caches and links templates. It is safe for concurrent use.
type Environment struct {
	loader     loader.Loader
	encoding   string
	indent     string
	autoReload bool
	parseOpts  []parsing.Option

	cacheSize  int
	checkEvery int
	cache      *Cache[*Module]

	renderers   tmpstore.Store
	rendererTTL time.Duration

	group  singleflight.Group
	logger zerolog.Logger
}

// New creates an environment configured with opts.
func New(opts ...Option) (*Environment, error) {
	env := &Environment{
		encoding:   runtime.DefaultEncoding,
		indent:     codegen.DefaultIndent,
		cacheSize:  DefaultCacheSize,
		checkEvery: DefaultCheckEvery,
		logger:     log.With().Str("component", "engine").Logger(),
	}
	for _, opt := range opts {
		if err := opt(env); err != nil {
			return nil, err
		}
	}
	env.cache = NewCache[*Module](env.cacheSize, env.checkEvery)
	return env, nil
}

// Encoding returns the output encoding.
func (env *Environment) Encoding() string {
	return env.encoding
}

// Parse parses template source into a document tree.
func (env *Environment) Parse(source string) (*parsing.Result, error) {
	return parsing.Parse(source, env.parseOpts...)
}

// Generate lowers a document tree into renderer source.
func (env *Environment) Generate(tree *structure.Tree, name, path string) (string, error) {
	return codegen.Generate(tree, codegen.Options{
		IndentString: env.indent,
		Encoding:     env.encoding,
		TemplateName: name,
		TemplatePath: path,
	})
}

// Compile parses, generates and executes template source into a module.
// The module is not cached.
func (env *Environment) Compile(source, name, path string) (*Module, error) {
	res, err := env.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	generated, err := env.Generate(res.Tree, name, path)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", name, err)
	}

	m, err := newModule(name, path, generated, env.encoding)
	if err != nil {
		return nil, err
	}

	for _, w := range res.Warnings.List() {
		m.Warnings = append(m.Warnings, w.String())
	}
	return m, nil
}

// Module returns the compiled module of the named template, compiling it at most
// once at a time.
func (env *Environment) Module(ctx context.Context, name string) (*Module, error) {
	if env.loader == nil {
		return nil, ErrNoLoader
	}

	if m, ok := env.cache.Get(name); ok {
		if !env.autoReload {
			return m, nil
		}
		version, err := env.loader.Version(ctx, name)
		if err != nil {
			if loader.IsNotFound(err) {
				env.cache.Remove(name)
			}
			return nil, err
		}
		if version.Equal(m.Version) {
			return m, nil
		}
		env.logger.Debug().Str("template", name).Msg("template changed, reloading")
		env.cache.Remove(name)
	}

	v, err, _ := env.group.Do(name, func() (any, error) {
		m, err := env.load(ctx, name)
		if err != nil {
			return nil, err
		}
		if evicted := env.cache.Store(name, m); len(evicted) > 0 {
			env.logger.Debug().Strs("templates", evicted).Msg("evicted templates from cache")
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Module), nil
}

func (env *Environment) load(ctx context.Context, name string) (*Module, error) {
	src, err := env.loader.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	key := tmpstore.RendererKey(name, src.Version, env.encoding)
	if env.renderers != nil {
		m, err := env.loadRenderer(ctx, key, src)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, tmpstore.ErrNotFound) {
			env.logger.Warn().Err(err).Str("template", name).Msg("cannot use stored renderer")
		}
	}

	start := time.Now()
	m, err := env.Compile(src.Source, name, src.Origin)
	if err != nil {
		return nil, err
	}
	m.Version = src.Version
	env.logger.Debug().
		Str("template", name).
		Str("origin", src.Origin).
		Dur("took", time.Since(start)).
		Msg("compiled template")

	if env.renderers != nil {
		err := env.renderers.SaveRenderer(ctx, key, tmpstore.Renderer{
			Name:       name,
			Origin:     src.Origin,
			Version:    src.Version,
			Source:     m.Source,
			Encoding:   m.Encoding,
			Warnings:   m.Warnings,
			CompiledAt: time.Now(),
		}, env.rendererTTL)
		if err != nil {
			env.logger.Warn().Err(err).Str("template", name).Msg("cannot store renderer")
		}
	}
	return m, nil
}

func (env *Environment) loadRenderer(ctx context.Context, key string, src *loader.Template) (*Module, error) {
	r, err := env.renderers.GetRenderer(ctx, key)
	if err != nil {
		return nil, err
	}
	m, err := newModule(src.Name, src.Origin, r.Source, env.encoding)
	if err != nil {
		return nil, err
	}
	m.Version = src.Version
	m.Warnings = r.Warnings
	env.logger.Debug().Str("template", src.Name).Msg("loaded stored renderer")
	return m, nil
}

// GetTemplate returns the named template linked with its ancestors.
func (env *Environment) GetTemplate(ctx context.Context, name string) (*Template, error) {
	m, err := env.Module(ctx, name)
	if err != nil {
		return nil, err
	}
	return env.link(ctx, m)
}

// FromString compiles a template given as source. The template is not cached,
// its ancestors are loaded by name.
func (env *Environment) FromString(ctx context.Context, source string) (*Template, error) {
	m, err := env.Compile(source, "!template_"+uuid.NewString(), "")
	if err != nil {
		return nil, err
	}
	return env.link(ctx, m)
}

// link linearizes the ancestors of m. Ancestors are compiled one by one, never while
// another compilation of the same chain is in flight, so cycles surface as errors.
func (env *Environment) link(ctx context.Context, m *Module) (*Template, error) {
	modules := map[string]*Module{m.Name: m}

	names, err := runtime.Linearize(m.Name, func(name string) ([]string, error) {
		cur, ok := modules[name]
		if !ok {
			var err error
			if cur, err = env.Module(ctx, name); err != nil {
				return nil, err
			}
			modules[name] = cur
		}
		return cur.Parents, nil
	})
	if err != nil {
		return nil, fmt.Errorf("inheritance of %s: %w", m.Name, err)
	}

	chain := make([]*Module, len(names))
	for i, name := range names {
		chain[i] = modules[name]
	}
	return &Template{module: m, chain: chain}, nil
}

// Invalidate drops the named template from the cache.
func (env *Environment) Invalidate(name string) {
	env.cache.Remove(name)
}

// ClearCache drops every cached module.
func (env *Environment) ClearCache() {
	env.cache.Clear()
}
