package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/govctl/internal/domain"
)

// ChangeParamKind sets one changeable plugin parameter.
type ChangeParamKind struct {
	source ParameterSource
}

// NewChangeParamKind creates the change-parameter kind.
func NewChangeParamKind(source ParameterSource) *ChangeParamKind {
	return &ChangeParamKind{source: source}
}

func (k *ChangeParamKind) Name() domain.ActionName { return domain.ActionChangeParam }

func (k *ChangeParamKind) Empty() domain.Action { return &domain.ChangeParam{} }

func (k *ChangeParamKind) Methods(ctx context.Context) ([]MethodRef, error) {
	params, err := k.source.ChangeableParameters(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(params, func(p domain.Parameter, _ int) MethodRef {
		return MethodRef{Interface: p.Interface, Method: p.Method()}
	}), nil
}

func (k *ChangeParamKind) Encode(ctx context.Context, action domain.Action) (*domain.EncodedAction, error) {
	c, ok := action.(*domain.ChangeParam)
	if !ok {
		return nil, fmt.Errorf("change param kind cannot encode %T", action)
	}
	if strings.TrimSpace(c.Plugin) == "" {
		return nil, domain.NewFieldError("plugin", "plugin is required")
	}
	if strings.TrimSpace(c.Parameter) == "" {
		return nil, domain.NewFieldError("parameter", "parameter is required")
	}

	params, err := k.source.ChangeableParameters(ctx)
	if err != nil {
		return nil, domain.NewFieldError("plugin", "could not fetch changeable parameters")
	}

	pluginParams := lo.Filter(params, func(p domain.Parameter, _ int) bool { return p.Plugin == c.Plugin })
	if len(pluginParams) == 0 {
		return nil, domain.NewFieldError("plugin", fmt.Sprintf("unknown plugin %q", c.Plugin))
	}
	param, found := lo.Find(pluginParams, func(p domain.Parameter) bool { return p.Name == c.Parameter })
	if !found {
		return nil, domain.NewFieldError("parameter", fmt.Sprintf("plugin %s has no changeable parameter %q", c.Plugin, c.Parameter))
	}

	value, err := ValidateParamValue(param.Type, c.Value)
	if err != nil {
		return nil, domain.NewFieldError("value", err.Error())
	}

	return &domain.EncodedAction{
		Interface: param.Interface,
		Method:    param.Method(),
		Params:    []any{value},
	}, nil
}

func (k *ChangeParamKind) Describe(ctx context.Context, encoded *domain.EncodedAction) (*Description, error) {
	params, err := k.source.ChangeableParameters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch changeable parameters: %w", err)
	}
	param, found := lo.Find(params, func(p domain.Parameter) bool {
		return p.Interface == encoded.Interface && p.Method() == encoded.Method
	})
	if !found {
		return nil, fmt.Errorf("%w: %s.%s", domain.ErrUnknownAction, encoded.Interface, encoded.Method)
	}
	if len(encoded.Params) != 1 {
		return nil, fmt.Errorf("%s expects 1 param, got %d", encoded.Method, len(encoded.Params))
	}

	value := formatParamValue(encoded.Params[0])
	return &Description{
		Name:    k.Name(),
		Title:   "Change parameter",
		Summary: fmt.Sprintf("Set %s.%s to %s", param.Plugin, param.Name, value),
		Fields: []Field{
			{Label: "Plugin", Value: param.Plugin},
			{Label: "Parameter", Value: param.Name},
			{Label: "Type", Value: param.Type},
			{Label: "Value", Value: value},
		},
	}, nil
}

func formatParamValue(v any) string {
	switch x := v.(type) {
	case common.Address:
		return x.Hex()
	case string:
		return x
	case bool:
		return fmt.Sprintf("%t", x)
	}
	return integerString(v)
}
