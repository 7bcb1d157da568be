// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files. Each theme is an
// environment block and the process environment is available as env.NAME.
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	// Define HCL schema
	type hclEnvironment struct {
		Name             string            `hcl:"name,label"`
		Password         string            `hcl:"password,optional"`
		Store            string            `hcl:"store,optional"`
		ThemeID          string            `hcl:"theme_id,optional"`
		IgnoreFiles      []string          `hcl:"ignore_files,optional"`
		Backend          string            `hcl:"backend,optional"`
		Options          map[string]string `hcl:"options,optional"`
		Root             string            `hcl:"root,optional"`
		Concurrency      int               `hcl:"concurrency,optional"`
		MaxAttempts      int               `hcl:"max_attempts,optional"`
		Timeout          string            `hcl:"timeout,optional"`
		IgnoreRepository *bool             `hcl:"ignore_repository,optional"`
	}
	type hclConfig struct {
		Environments []hclEnvironment `hcl:"environment,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	f := &File{Environments: map[string]Environment{}}
	for _, e := range hclCfg.Environments {
		if _, dup := f.Environments[e.Name]; dup {
			return nil, errors.Errorf("environment %q is defined twice", e.Name)
		}

		var timeout Duration
		if err := timeout.parse(e.Timeout); err != nil {
			return nil, errors.Errorf("environment %q: %w", e.Name, err)
		}

		f.Environments[e.Name] = Environment{
			Password:         e.Password,
			Store:            e.Store,
			ThemeID:          ID(e.ThemeID),
			IgnoreFiles:      e.IgnoreFiles,
			Backend:          e.Backend,
			Options:          e.Options,
			Root:             e.Root,
			Concurrency:      e.Concurrency,
			MaxAttempts:      e.MaxAttempts,
			Timeout:          timeout,
			IgnoreRepository: e.IgnoreRepository,
		}
	}
	return f, nil
}

// envObject exposes the process environment to HCL expressions
func envObject() cty.Value {
	vals := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vals[k] = cty.StringVal(v)
	}
	if len(vals) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vals)
}
