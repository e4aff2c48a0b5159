package test

import (
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/miruken-go/dispatch"
	koanfp "github.com/miruken-go/dispatch/config/koanf"
	"github.com/miruken-go/dispatch/render"
	"github.com/stretchr/testify/suite"
	"strings"
	"testing"
	"time"
)

type (
	Search struct{}

	Endpoint struct {
		Name string `koanf:"name"`
		Url  string `koanf:"url"`
	}
)

func (s *Search) Find(tags []string) dispatch.Render {
	return render.Text{Body: strings.Join(tags, "+")}
}

type OptionsTestSuite struct {
	suite.Suite
}

func (suite *OptionsTestSuite) TestLoad() {
	suite.Run("Map", func() {
		k := koanf.New(".")
		err := k.Load(confmap.Provider(map[string]any{
			"dispatch.strictScalars": true,
			"dispatch.listSeparator": ";",
		}, "."), nil)
		suite.Require().Nil(err)
		options, err := koanfp.Load(k, "dispatch")
		suite.Nil(err)
		suite.True(options.StrictScalars)
		suite.Equal(";", options.ListSeparator)
		suite.Equal(time.RFC3339, options.TimeLayout)
	})

	suite.Run("Json", func() {
		k := koanf.New(".")
		err := k.Load(rawbytes.Provider([]byte(`{
			"dispatch": {
				"timeLayout": "2006-01-02"
			}
		}`)), json.Parser())
		suite.Require().Nil(err)
		options, err := koanfp.Load(k, "dispatch")
		suite.Nil(err)
		suite.False(options.StrictScalars)
		suite.Equal("2006-01-02", options.TimeLayout)
		suite.Equal(",", options.ListSeparator)
	})

	suite.Run("Missing", func() {
		options, err := koanfp.Load(koanf.New("."), "dispatch")
		suite.Nil(err)
		suite.Equal(dispatch.DefaultOptions.TimeLayout, options.TimeLayout)
		suite.Equal(dispatch.DefaultOptions.ListSeparator, options.ListSeparator)
	})

	suite.Run("Invalid", func() {
		k := koanf.New(".")
		err := k.Load(confmap.Provider(map[string]any{
			"dispatch.strictScalars": "often",
		}, "."), nil)
		suite.Require().Nil(err)
		_, err = koanfp.Load(k, "dispatch")
		suite.NotNil(err)
	})

	suite.Run("Nil", func() {
		suite.Panics(func() {
			_, _ = koanfp.Load(nil, "dispatch")
		})
	})
}

func (suite *OptionsTestSuite) TestOptions() {
	k := koanf.New(".")
	err := k.Load(confmap.Provider(map[string]any{
		"dispatch.listSeparator": "|",
	}, "."), nil)
	suite.Require().Nil(err)
	opt, err := koanfp.Options(k, "dispatch")
	suite.Require().Nil(err)

	invoker := dispatch.NewInvoker(opt)
	desc := dispatch.MustDescribe(&Search{}, "Find",
		dispatch.Param("tags", dispatch.Default("go|koanf")))
	out, err := invoker.Invoke(desc, nil)
	suite.Nil(err)
	suite.Equal(render.Text{Body: "go+koanf"}, out)
}

func (suite *OptionsTestSuite) TestEnv() {
	suite.T().Setenv("Dispatch__Endpoints__0__Name", "primary")
	suite.T().Setenv("Dispatch__Endpoints__0__Url", "http://primary")
	suite.T().Setenv("Dispatch__Endpoints__1__Name", "backup")
	suite.T().Setenv("Dispatch__Endpoints__1__Url", "http://backup")
	suite.T().Setenv("Dispatch__StrictScalars", "true")

	k := koanf.New(".")
	err := k.Load(env.Provider("Dispatch", "__", nil), nil,
		koanf.WithMergeFunc(koanfp.Merge))
	suite.Require().Nil(err)

	var endpoints []Endpoint
	suite.Nil(k.Unmarshal("Dispatch.Endpoints", &endpoints))
	suite.Equal([]Endpoint{
		{"primary", "http://primary"},
		{"backup", "http://backup"},
	}, endpoints)

	options, err := koanfp.Load(k, "Dispatch")
	suite.Nil(err)
	suite.True(options.StrictScalars)
}

func (suite *OptionsTestSuite) TestSlices() {
	suite.Run("Nothing", func() {
		m := map[string]any{
			"Name": "John",
		}
		s, ok := koanfp.ConvertSlices(m)
		suite.Nil(s)
		suite.False(ok)
	})

	suite.Run("Top", func() {
		m := map[string]any{
			"0": "John",
			"1": "Jane",
		}
		s, ok := koanfp.ConvertSlices(m)
		suite.True(ok)
		suite.Equal([]any{"John", "Jane"}, s)
	})

	suite.Run("Nested", func() {
		m := map[string]any{
			"Names": map[string]any{
				"1": "Jane",
				"0": "John",
			},
		}
		s, ok := koanfp.ConvertSlices(m)
		suite.Nil(s)
		suite.False(ok)
		suite.Equal([]any{"John", "Jane"}, m["Names"])
	})

	suite.Run("Sparse", func() {
		m := map[string]any{
			"2": "Jim",
			"0": "John",
		}
		s, ok := koanfp.ConvertSlices(m)
		suite.True(ok)
		suite.Equal([]any{"John", nil, "Jim"}, s)
	})

	suite.Run("Mixed", func() {
		m := map[string]any{
			"0":    "John",
			"Name": "Jane",
		}
		s, ok := koanfp.ConvertSlices(m)
		suite.Nil(s)
		suite.False(ok)
	})

	suite.Run("Merge Strict", func() {
		dest := map[string]any{"Names": []any{"Bob"}}
		src  := map[string]any{"Names": map[string]any{"0": "John"}}
		suite.Nil(koanfp.MergeStrict(src, dest))
		suite.Equal([]any{"John"}, dest["Names"])
	})
}

func TestOptionsTestSuite(t *testing.T) {
	suite.Run(t, new(OptionsTestSuite))
}
