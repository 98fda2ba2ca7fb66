package nn

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/born-ml/neuralop/internal/serialization"
)

// Metadata keys written by Checkpoint.Save.
const (
	MetaCreatedAt = "created_at"
	MetaModule    = "module"
)

// Checkpoint is a snapshot of a module's parameters plus string metadata.
//
// Example:
//
//	ckpt := &nn.Checkpoint{Model: conv, Metadata: map[string]string{"dataset": "darcy"}}
//	err := ckpt.Save("conv.safetensors")
//
// To restore:
//
//	ckpt, err := nn.LoadCheckpoint("conv.safetensors", conv)
type Checkpoint struct {
	Model     Stateful          // Module whose state is saved or restored
	Metadata  map[string]string // Additional metadata
	CreatedAt time.Time         // When the checkpoint was created
}

// Save writes the module's state dict and metadata to a SafeTensors file.
func (c *Checkpoint) Save(path string) error {
	if c.Model == nil {
		return errors.New("checkpoint: no model")
	}

	created := c.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	meta := make(map[string]string, len(c.Metadata)+2)
	for k, v := range c.Metadata {
		meta[k] = v
	}
	meta[MetaCreatedAt] = created.UTC().Format(time.RFC3339)
	if s, ok := c.Model.(fmt.Stringer); ok {
		meta[MetaModule] = s.String()
	}

	if err := serialization.WriteSafeTensors(path, c.Model.StateDict(), meta); err != nil {
		return errors.Wrapf(err, "save checkpoint %s", path)
	}
	return nil
}

// LoadCheckpoint reads a file written by Checkpoint.Save into model.
func LoadCheckpoint(path string, model Stateful) (*Checkpoint, error) {
	state, meta, err := serialization.ReadSafeTensors(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load checkpoint %s", path)
	}
	if err := model.LoadStateDict(state); err != nil {
		return nil, errors.Wrapf(err, "load checkpoint %s", path)
	}

	c := &Checkpoint{Model: model, Metadata: meta}
	if ts, ok := meta[MetaCreatedAt]; ok {
		if created, err := time.Parse(time.RFC3339, ts); err == nil {
			c.CreatedAt = created
		}
	}
	return c, nil
}
