package ops

import (
	"context"
	"testing"
)

func TestHealth(t *testing.T) {
	database := testDB(t)

	up := Health(context.Background(), database, &stubGenerator{connected: true})
	if !up.Database || !up.Completion || !up.Healthy() {
		t.Errorf("Health() = %+v, want all healthy", up)
	}

	degraded := Health(context.Background(), database, &stubGenerator{connected: false})
	if !degraded.Database || degraded.Completion || degraded.Healthy() {
		t.Errorf("Health() = %+v, want completion down only", degraded)
	}
}
