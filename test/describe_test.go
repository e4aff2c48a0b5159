package test

import (
	"github.com/hashicorp/go-multierror"
	"github.com/miruken-go/dispatch"
	"github.com/stretchr/testify/suite"
	"reflect"
	"testing"
)

type Filters struct {
	Age   int               `param:"age" default:"18" required:"true"`
	Name  string            `param:"name,default=anon,required"`
	Tags  []string          `param:"tags"`
	Bad   string            `param:"bad,loud"`
	Flag  string            `param:"flag" required:"maybe"`
	Plain string
}

type DescribeTestSuite struct {
	suite.Suite
}

func (suite *DescribeTestSuite) TestDescribe() {
	suite.Run("Method", func() {
		handler := &Profiles{}
		desc, err := dispatch.Describe(handler, "Greet", dispatch.Param("name"))
		suite.Require().Nil(err)
		suite.Same(handler, desc.Target())
		suite.Equal(reflect.TypeOf(handler), desc.Type())
		suite.Equal("Greet", desc.Name())
		suite.Equal(2, desc.NumParam())
		suite.Equal("name", desc.Param(0).Binding.Key)
		suite.Nil(desc.Param(1).Binding)
		suite.Equal(reflect.TypeOf(0), desc.Params()[1].Type)
		suite.Equal("*test.Profiles.Greet", desc.String())
	})

	suite.Run("Func", func() {
		desc, err := dispatch.DescribeFunc(greet)
		suite.Require().Nil(err)
		suite.Nil(desc.Target())
		suite.Equal("test.greet", desc.Name())
		suite.Equal("test.greet", desc.String())
	})

	suite.Run("Not A Func", func() {
		_, err := dispatch.DescribeFunc(42)
		suite.ErrorContains(err, "expected a func")
	})

	suite.Run("Nil Target", func() {
		_, err := dispatch.Describe(nil, "Greet")
		suite.NotNil(err)
		var profiles *Profiles
		_, err = dispatch.Describe(profiles, "Greet")
		suite.NotNil(err)
	})

	suite.Run("Missing Method", func() {
		_, err := dispatch.Describe(&Profiles{}, "Missing")
		var nf *dispatch.NotFoundError
		suite.Require().ErrorAs(err, &nf)
		suite.Equal("Missing", nf.Method)
	})

	suite.Run("Unexported Method", func() {
		_, err := dispatch.Describe(&Profiles{}, "calls")
		var nf *dispatch.NotFoundError
		suite.ErrorAs(err, &nf)
	})

	suite.Run("Must Describe Panics", func() {
		suite.Panics(func() {
			dispatch.MustDescribe(&Profiles{}, "Missing")
		})
	})
}

func (suite *DescribeTestSuite) TestInvalid() {
	invalid := func(method string, bindings ...*dispatch.Binding) *dispatch.DescriptorError {
		_, err := dispatch.Describe(&Profiles{}, method, bindings...)
		var de *dispatch.DescriptorError
		suite.Require().ErrorAs(err, &de)
		suite.Equal(method, de.Method)
		return de
	}

	suite.Run("Too Many Outputs", func() {
		de := invalid("TooMany")
		suite.ErrorContains(de, "expected 1 or 2 outputs")
	})

	suite.Run("Second Output Not Error", func() {
		de := invalid("NotError")
		suite.ErrorContains(de, "second output must be error")
	})

	suite.Run("Variadic", func() {
		de := invalid("Variadic")
		suite.ErrorContains(de, "variadic")
	})

	suite.Run("Too Many Bindings", func() {
		de := invalid("ByAge", dispatch.Param("age"), dispatch.Param("extra"))
		suite.ErrorContains(de, "2 bindings supplied for 1 parameters")
	})

	suite.Run("Elem On Scalar", func() {
		de := invalid("ByAge", dispatch.Param("age", dispatch.Elem(reflect.TypeOf(0))))
		suite.ErrorContains(de, "cannot declare element types")
	})

	suite.Run("Elem Count", func() {
		de := invalid("Filter", dispatch.Param("m", dispatch.Elem(reflect.TypeOf(""))))
		suite.ErrorContains(de, "expects 2 element types")
	})

	suite.Run("Elem Not Assignable", func() {
		de := invalid("Scores", dispatch.Param("s", dispatch.Elem(reflect.TypeOf(""))))
		suite.ErrorContains(de, "cannot hold elements of type string")
	})

	suite.Run("Nil Elem", func() {
		de := invalid("Anything", dispatch.Param("v", dispatch.Elem(nil)))
		suite.ErrorContains(de, "nil element type")
	})

	suite.Run("Aggregates", func() {
		de := invalid("Variadic", dispatch.Param("a"), dispatch.Param("b"))
		var merr *multierror.Error
		suite.Require().ErrorAs(de, &merr)
		suite.Len(merr.Errors, 2)
	})
}

func (suite *DescribeTestSuite) TestElementTypes() {
	handler := &Profiles{}
	elems := func(method string, bindings ...*dispatch.Binding) []reflect.Type {
		return dispatch.ElementTypes(dispatch.MustDescribe(handler, method, bindings...), 0)
	}

	suite.Run("Slice", func() {
		suite.Equal([]reflect.Type{reflect.TypeOf(0)}, elems("Scores"))
	})

	suite.Run("Array", func() {
		suite.Equal([]reflect.Type{reflect.TypeOf(int64(0))}, elems("Ids"))
	})

	suite.Run("Map", func() {
		suite.Equal([]reflect.Type{reflect.TypeOf(""), reflect.TypeOf("")}, elems("Filter"))
		suite.Equal([]reflect.Type{reflect.TypeOf(0), reflect.TypeOf("")}, elems("IntKeys"))
	})

	suite.Run("Erased", func() {
		suite.Empty(elems("Anything"))
		suite.Empty(elems("Loose"))
		suite.Empty(elems("Erased"))
	})

	suite.Run("Declared", func() {
		suite.Equal([]reflect.Type{reflect.TypeOf(0)},
			elems("Anything", dispatch.Param("v", dispatch.Elem(reflect.TypeOf(0)))))
	})

	suite.Run("Not A Container", func() {
		suite.Empty(elems("ByAge"))
		suite.Empty(elems("Search"))
	})

	suite.Run("Out Of Range", func() {
		desc := dispatch.MustDescribe(handler, "ByAge")
		suite.Nil(dispatch.ElementTypes(desc, 1))
		suite.Nil(dispatch.ElementTypes(desc, -1))
		suite.Nil(dispatch.ElementTypes(nil, 0))
	})
}

func (suite *DescribeTestSuite) TestBinding() {
	field := func(name string) reflect.StructTag {
		f, ok := reflect.TypeOf(Filters{}).FieldByName(name)
		suite.Require().True(ok)
		return f.Tag
	}

	suite.Run("Options", func() {
		b := dispatch.Param("age", dispatch.Default("18"), dispatch.Required(), nil)
		suite.Equal("age", b.Key)
		suite.Equal("18", b.Default)
		suite.True(b.Required)
		suite.Equal(`param:"age" default:"18" required`, b.String())
	})

	suite.Run("Bean String", func() {
		var b *dispatch.Binding
		suite.Equal("bean", b.String())
	})

	suite.Run("Parse Tags", func() {
		b, err := dispatch.ParseBinding(field("Age"))
		suite.Nil(err)
		suite.Equal(&dispatch.Binding{Key: "age", Default: "18", Required: true}, b)
	})

	suite.Run("Parse Inline", func() {
		b, err := dispatch.ParseBinding(field("Name"))
		suite.Nil(err)
		suite.Equal(&dispatch.Binding{Key: "name", Default: "anon", Required: true}, b)
	})

	suite.Run("Parse Key Only", func() {
		b := dispatch.MustParseBinding(field("Tags"))
		suite.Equal(&dispatch.Binding{Key: "tags"}, b)
	})

	suite.Run("Unknown Option", func() {
		_, err := dispatch.ParseBinding(field("Bad"))
		suite.ErrorContains(err, `unrecognized option "loud"`)
	})

	suite.Run("Invalid Required", func() {
		_, err := dispatch.ParseBinding(field("Flag"))
		suite.ErrorContains(err, "invalid required flag")
	})

	suite.Run("Missing Param", func() {
		_, err := dispatch.ParseBinding(field("Plain"))
		suite.NotNil(err)
		suite.Panics(func() {
			dispatch.MustParseBinding(field("Plain"))
		})
	})
}

func greet(name string) (dispatch.Render, error) {
	return nil, nil
}

func TestDescribeTestSuite(t *testing.T) {
	suite.Run(t, new(DescribeTestSuite))
}
