package memory

import (
	"github.com/agroselva/liquidacion-api/internal/application/advances"
	"github.com/agroselva/liquidacion-api/internal/application/allocation"
	"github.com/agroselva/liquidacion-api/internal/application/classification"
	"github.com/agroselva/liquidacion-api/internal/application/kardex"
	"github.com/agroselva/liquidacion-api/internal/application/settlement"
)

// El Store satisface los TxRunner de todos los casos de uso.
var (
	_ classification.TxRunner = (*Store)(nil)
	_ advances.TxRunner       = (*Store)(nil)
	_ allocation.TxRunner     = (*Store)(nil)
	_ settlement.TxRunner     = (*Store)(nil)
	_ kardex.TxRunner         = (*Store)(nil)
)
