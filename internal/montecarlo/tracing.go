package montecarlo

import "go.opentelemetry.io/otel"

// tracer is a no-op until the application installs a TracerProvider.
var tracer = otel.Tracer("github.com/agbru/picalc/internal/montecarlo")
