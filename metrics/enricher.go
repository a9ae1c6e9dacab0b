/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// AttributeEnricher adds contextual attributes to every recorded metric.
// Callers attach dimensions the instruments themselves cannot know, such as
// the evaluation definition, variant, or batch identifier, without coupling
// the LLM adapters to the runner. The enricher receives the base attributes
// (model, tool) and returns the enriched set.
type AttributeEnricher func(ctx context.Context, baseAttrs []attribute.KeyValue) []attribute.KeyValue
