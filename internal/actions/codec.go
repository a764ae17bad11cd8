package actions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govctl/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Codec encodes and describes whole action lists.
type Codec struct {
	registry *Registry
	log      *slog.Logger
}

// NewCodec creates a codec over registry.
func NewCodec(registry *Registry, log *slog.Logger) *Codec {
	if log == nil {
		log = slog.Default()
	}
	return &Codec{registry: registry, log: log}
}

// Registry returns the kinds the codec dispatches to.
func (c *Codec) Registry() *Registry { return c.registry }

// EncodeAll encodes every action concurrently. The result keeps the input order.
// If any action fails, no list is returned and the error is a *domain.BatchError
// carrying field errors for every failing action.
func (c *Codec) EncodeAll(ctx context.Context, list []domain.Action) ([]*domain.EncodedAction, error) {
	encoded := make([]*domain.EncodedAction, len(list))
	failures := make([][]*domain.FieldError, len(list))

	var g errgroup.Group
	for i, action := range list {
		g.Go(func() error {
			enc, err := c.encodeOne(ctx, action)
			if err != nil {
				failures[i] = indexFieldErrors(i, err)
				c.log.Debug("action failed to encode", "index", i, "error", err)
				return nil
			}
			encoded[i] = enc
			return nil
		})
	}
	_ = g.Wait()

	var all []*domain.FieldError
	for _, f := range failures {
		all = append(all, f...)
	}
	if len(all) > 0 {
		return nil, &domain.BatchError{Errors: all}
	}
	return encoded, nil
}

func (c *Codec) encodeOne(ctx context.Context, action domain.Action) (*domain.EncodedAction, error) {
	if action == nil {
		return nil, domain.NewFieldError("", "empty action")
	}
	kind, err := c.registry.Get(action.Name())
	if err != nil {
		return nil, domain.NewFieldError("name", err.Error())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	enc, err := kind.Encode(ctx, action)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, domain.NewFieldError("", "action does not produce a call")
	}
	return enc, nil
}

// indexFieldErrors flattens err into field errors tagged with index.
func indexFieldErrors(index int, err error) []*domain.FieldError {
	var many fieldErrors
	if errors.As(err, &many) {
		out := make([]*domain.FieldError, len(many))
		for i, fe := range many {
			cp := *fe
			cp.Index = index
			out[i] = &cp
		}
		return out
	}
	var one *domain.FieldError
	if errors.As(err, &one) {
		cp := *one
		cp.Index = index
		return []*domain.FieldError{&cp}
	}
	return []*domain.FieldError{{Index: index, Message: err.Error()}}
}

// Describe renders one encoded action.
func (c *Codec) Describe(ctx context.Context, encoded *domain.EncodedAction) (*Description, error) {
	kind, err := c.registry.KindFor(ctx, encoded)
	if err != nil {
		return nil, err
	}
	return kind.Describe(ctx, encoded)
}

// DescribeAll renders every encoded action in order.
func (c *Codec) DescribeAll(ctx context.Context, list []*domain.EncodedAction) ([]*Description, error) {
	out := make([]*Description, len(list))
	for i, enc := range list {
		d, err := c.Describe(ctx, enc)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		out[i] = d
	}
	return out, nil
}

// Interpret maps an on-chain action triple back to an encoded action by
// matching its selector against every registered method. Calls to dao are
// treated as facet calls on the diamond.
func (c *Codec) Interpret(ctx context.Context, raw domain.RawAction, dao common.Address) (*domain.EncodedAction, error) {
	for _, name := range c.registry.Names() {
		kind, _ := c.registry.Get(name)
		methods, err := kind.Methods(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list methods of %s: %w", name, err)
		}
		for _, m := range methods {
			enc, ok, err := match(m, raw, dao)
			if err != nil {
				return nil, err
			}
			if ok {
				return enc, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: unrecognised call to %s", domain.ErrUnknownAction, raw.To.Hex())
}

func match(m MethodRef, raw domain.RawAction, dao common.Address) (*domain.EncodedAction, bool, error) {
	if m.Method == "" {
		if len(raw.Data) != 0 || raw.Value == nil || raw.Value.Sign() == 0 {
			return nil, false, nil
		}
		to := raw.To
		return &domain.EncodedAction{To: &to, Value: raw.Value}, true, nil
	}

	probe := &domain.EncodedAction{Method: m.Method}
	if len(raw.Data) < 4 || !bytes.Equal(probe.Selector(), raw.Data[:4]) {
		return nil, false, nil
	}
	params, err := domain.DecodeCalldata(m.Method, raw.Data)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode %s: %w", m.Method, err)
	}
	enc := &domain.EncodedAction{Interface: m.Interface, Method: m.Method, Params: params}
	if raw.To != dao {
		to := raw.To
		enc.To = &to
	}
	if raw.Value != nil && raw.Value.Sign() != 0 {
		enc.Value = raw.Value
	}
	return enc, true, nil
}
