package field

import (
	"context"

	"github.com/syssam/loom/graphql"
	"github.com/syssam/loom/privacy"
	"github.com/syssam/loom/schema"
)

// Common holds the options shared by every field type.
type Common struct {
	Label        string              `yaml:"label"`
	UI           schema.FieldUI      `yaml:"ui"`
	GraphQL      schema.FieldGraphQL `yaml:"graphql"`
	Access       privacy.FieldAccess `yaml:"-"`
	Hooks        schema.FieldHooks   `yaml:"-"`
	IsFilterable any                 `yaml:"isFilterable"`
	IsOrderable  any                 `yaml:"isOrderable"`
}

// apply copies the common options onto def. Hooks configured by the user
// run after the hooks of the field type.
func (c Common) apply(def *schema.FieldDef) *schema.FieldDef {
	def.Label = c.Label
	def.GraphQL = c.GraphQL
	def.Access = c.Access
	def.IsFilterable = c.IsFilterable
	def.IsOrderable = c.IsOrderable

	ui := c.UI
	if ui.CreateView == "" {
		ui.CreateView = def.UI.CreateView
	}
	if ui.ItemView == "" {
		ui.ItemView = def.UI.ItemView
	}
	if ui.ListView == "" {
		ui.ListView = def.UI.ListView
	}
	def.UI = ui

	def.Hooks = schema.FieldHooks{
		ResolveInput:    chainResolve(def.Hooks.ResolveInput, c.Hooks.ResolveInput),
		ValidateInput:   chainValidate(def.Hooks.ValidateInput, c.Hooks.ValidateInput),
		BeforeOperation: chainOperation(def.Hooks.BeforeOperation, c.Hooks.BeforeOperation),
		AfterOperation:  chainOperation(def.Hooks.AfterOperation, c.Hooks.AfterOperation),
	}
	return def
}

func chainResolve(a, b schema.ResolveInputHook) schema.ResolveInputHook {
	if a == nil || b == nil {
		if a == nil {
			return b
		}
		return a
	}
	return func(ctx context.Context, args schema.HookArgs) (any, error) {
		v, err := a(ctx, args)
		if err != nil {
			return nil, err
		}
		args.Resolved = v
		return b(ctx, args)
	}
}

func chainValidate(a, b schema.ValidateHook) schema.ValidateHook {
	if a == nil || b == nil {
		if a == nil {
			return b
		}
		return a
	}
	return func(ctx context.Context, args schema.HookArgs, addError func(string)) error {
		if err := a(ctx, args, addError); err != nil {
			return err
		}
		return b(ctx, args, addError)
	}
}

func chainOperation(a, b schema.OperationHook) schema.OperationHook {
	if a == nil || b == nil {
		if a == nil {
			return b
		}
		return a
	}
	return func(ctx context.Context, args schema.HookArgs) error {
		if err := a(ctx, args); err != nil {
			return err
		}
		return b(ctx, args)
	}
}

// View module identifiers.
const (
	viewsPrefix       = "loom/fields/"
	ViewsID           = viewsPrefix + "id/views"
	ViewsText         = viewsPrefix + "text/views"
	ViewsInteger      = viewsPrefix + "integer/views"
	ViewsFloat        = viewsPrefix + "float/views"
	ViewsCheckbox     = viewsPrefix + "checkbox/views"
	ViewsTimestamp    = viewsPrefix + "timestamp/views"
	ViewsSelect       = viewsPrefix + "select/views"
	ViewsJSON         = viewsPrefix + "json/views"
	ViewsVirtual      = viewsPrefix + "virtual/views"
	ViewsRelationship = viewsPrefix + "relationship/views"
)

func input(t graphql.Type) *schema.InputArg {
	return &schema.InputArg{Type: t}
}

func output(t graphql.Type) *graphql.Field {
	return &graphql.Field{Type: t}
}

// optionalMode maps isNullable to the column mode.
func optionalMode(nullable bool) schema.ScalarMode {
	if nullable {
		return schema.ModeOptional
	}
	return schema.ModeRequired
}
