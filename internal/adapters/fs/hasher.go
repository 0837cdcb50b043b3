package fs

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/remake/internal/core/domain"
	"go.trai.ch/remake/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes recipe digests with xxhash.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// HashRecipe digests the target name and every command of its recipe.
// Changing a program, an argument, the command order or the silent flag
// changes the digest.
func (h *Hasher) HashRecipe(target string, commands []domain.Command) string {
	hasher := xxhash.New()

	_, _ = hasher.WriteString(target)
	_, _ = hasher.Write([]byte{0})

	for _, cmd := range commands {
		_, _ = hasher.WriteString(strconv.FormatBool(cmd.Silent))
		_, _ = hasher.Write([]byte{0})
		_, _ = hasher.WriteString(cmd.Program)
		_, _ = hasher.Write([]byte{0})
		for _, arg := range cmd.Args {
			_, _ = hasher.WriteString(arg)
			_, _ = hasher.Write([]byte{0})
		}
		_, _ = hasher.Write([]byte{0}) // Section separator
	}

	return fmt.Sprintf("%016x", hasher.Sum64())
}
