package echoportal

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/labstack/echo/v4"

	"github.com/adrodovia/portal/core"
	"github.com/adrodovia/portal/core/portal"
)

// Query parameter names shared by the EBD pages and the panels.
const (
	paramClass     = "classe"
	paramTrimester = "trimestre"
	paramScreen    = "tela"
	paramSearch    = "busca"
	paramLesson    = "id"
)

// ebdEvent turns the query of an EBD page into the state event it stands for:
// switch to tab, then apply the class and trimester filters when present.
func ebdEvent(ctx echo.Context, tab portal.Tab) func(portal.State) portal.State {
	params := ctx.QueryParams()
	return func(st portal.State) portal.State {
		st = st.SwitchTab(tab)
		if _, ok := params[paramClass]; ok {
			st = st.SelectClass(params.Get(paramClass))
		}
		if _, ok := params[paramTrimester]; ok {
			st = st.SelectTrimester(params.Get(paramTrimester))
		}
		return st
	}
}

var errNoClass = errors.New("select a class to export")

type exportQuery struct {
	Class     string `query:"classe" json:"classe" validate:"required"`
	Trimester string `query:"trimestre" json:"trimestre" validate:"omitempty,trimester"`
}

func (q *exportQuery) Validate(v *validator.Validate) error {
	q.Class = core.CleanString(q.Class)
	q.Trimester = core.CleanString(q.Trimester)
	if err := v.Struct(q); err != nil {
		return err
	}
	if q.Class == core.ClassesSentinel {
		return core.NewValidationError(errNoClass, core.FieldError{Field: paramClass, Error: errNoClass.Error()})
	}
	if q.Trimester == "" {
		q.Trimester = core.TrimesterAll
	}
	return nil
}
