package test

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/miruken-go/dispatch"
	"github.com/miruken-go/dispatch/render"
	"net"
	"strconv"
	"strings"
	"time"
)

type (
	Query struct {
		Term  string `param:"q"`
		Page  int
		Sizes []int
	}

	Locked struct {
		Name string
	}

	Broken struct {
		Name string
	}

	Tags []string

	Level int

	Profiles struct {
		calls int
	}
)

func (q *Query) Construct() error {
	q.Page = 1
	return nil
}

func (l *Locked) NoConstructor() {}

func (b *Broken) Construct() error {
	return errors.New("not today")
}

// Profiles

func (p *Profiles) ByAge(age int) dispatch.Render {
	p.calls++
	return render.Text{Body: strconv.Itoa(age)}
}

func (p *Profiles) Greet(name string, count int) (dispatch.Render, error) {
	p.calls++
	return render.Text{Body: strings.Repeat(name, count)}, nil
}

func (p *Profiles) Tagged(tags []string) dispatch.Render {
	return render.Text{Body: strings.Join(tags, ",")}
}

func (p *Profiles) Named(tags Tags) dispatch.Render {
	return render.Text{Body: strings.Join(tags, ",")}
}

func (p *Profiles) Scores(scores []int) dispatch.Render {
	return render.JSON{Value: scores}
}

func (p *Profiles) Anything(values []any) dispatch.Render {
	return render.JSON{Value: values}
}

func (p *Profiles) Erased(values any) dispatch.Render {
	return render.JSON{Value: values}
}

func (p *Profiles) Ids(ids [3]int64) dispatch.Render {
	return render.JSON{Value: ids}
}

func (p *Profiles) Filter(m map[string]string) dispatch.Render {
	return render.JSON{Value: m}
}

func (p *Profiles) Loose(m map[string]any) dispatch.Render {
	return render.JSON{Value: m}
}

func (p *Profiles) Two(m map[string]string, n map[string]string) dispatch.Render {
	return render.JSON{Value: []any{m, n}}
}

func (p *Profiles) IntKeys(m map[int]string) dispatch.Render {
	return render.JSON{Value: m}
}

func (p *Profiles) Second(name string, m map[string]string) dispatch.Render {
	return render.JSON{Value: m}
}

func (p *Profiles) Search(q Query) dispatch.Render {
	return render.JSON{Value: q}
}

func (p *Profiles) SearchPtr(q *Query) dispatch.Render {
	return render.JSON{Value: q}
}

func (p *Profiles) Unbound(age int, q Query) dispatch.Render {
	return render.Text{Body: fmt.Sprintf("%d %s", age, q.Term)}
}

func (p *Profiles) Lock(l Locked) dispatch.Render {
	return render.Text{Body: l.Name}
}

func (p *Profiles) Break(b Broken) dispatch.Render {
	return render.Text{Body: b.Name}
}

func (p *Profiles) Lookup(
	id    uuid.UUID,
	since time.Duration,
	at    time.Time,
	ip    net.IP,
	level Level,
	limit *int,
) dispatch.Render {
	return render.JSON{Value: []any{id, since, at, ip, level, limit}}
}

func (p *Profiles) Fail(reason string) (dispatch.Render, error) {
	return nil, errors.New(reason)
}

func (p *Profiles) Panic(reason string) dispatch.Render {
	panic(errors.New(reason))
}

func (p *Profiles) PanicString() dispatch.Render {
	panic("no error here")
}

func (p *Profiles) Wrong() any {
	return "not a render"
}

func (p *Profiles) WrongType() string {
	return "not a render"
}

func (p *Profiles) Nothing() dispatch.Render {
	return nil
}

func (p *Profiles) TooMany() (dispatch.Render, error, int) {
	return nil, nil, 0
}

func (p *Profiles) NotError() (dispatch.Render, string) {
	return nil, ""
}

func (p *Profiles) Variadic(names ...string) dispatch.Render {
	return nil
}

func (p *Profiles) Calls() int {
	return p.calls
}
