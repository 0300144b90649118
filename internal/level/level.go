// Package level loads scene descriptions from JSON and populates the
// physics world and entity registry from them.
package level

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"wingsim/internal/phys"
	"wingsim/internal/sim"
)

// ColliderSpec describes an entity's collision shape.
type ColliderSpec struct {
	Type        string     `json:"type"` // "cuboid" or "halfspace"
	HalfExtents [3]float64 `json:"half_extents,omitempty"`
	Normal      [3]float64 `json:"normal,omitempty"`
}

// PhysicsSpec describes an entity's rigid body. Entities without one are
// render-only scenery.
type PhysicsSpec struct {
	Body            string        `json:"body"` // "static" or "dynamic"
	Mass            float64       `json:"mass,omitempty"`
	CenterOfMass    [3]float64    `json:"center_of_mass,omitempty"`
	Inertia         [3]float64    `json:"inertia,omitempty"`
	InitialVelocity [3]float64    `json:"initial_velocity,omitempty"`
	Collider        *ColliderSpec `json:"collider,omitempty"`
}

// EntitySpec is one authored entity.
type EntitySpec struct {
	ID       string       `json:"id"`
	Model    string       `json:"model,omitempty"`
	Position [3]float64   `json:"position"`
	Rotation *[4]float64  `json:"rotation,omitempty"` // w, x, y, z
	Plane    bool         `json:"plane,omitempty"`
	Physics  *PhysicsSpec `json:"physics,omitempty"`
}

// Level is a parsed scene document.
type Level struct {
	Name     string       `json:"name"`
	Entities []EntitySpec `json:"entities"`
}

// Load reads and parses a level file. The file as a whole must be valid
// JSON; individually broken entities are dropped later, during Populate.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level %s: %w", path, err)
	}
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("parse level %s: %w", path, err)
	}
	return &lvl, nil
}

// Populate instantiates every entity into the world and registry and returns
// the id of the controllable airframe, or "" when the level has none.
// Entities with invalid specs are skipped with a warning; duplicate ids
// abort, they always indicate a broken authoring pipeline.
func (l *Level) Populate(world *phys.World, registry *sim.Registry, log zerolog.Logger) (planeID string, err error) {
	for _, spec := range l.Entities {
		if spec.ID == "" {
			log.Warn().Msg("skipping entity with empty id")
			continue
		}

		if spec.Physics == nil {
			if err := registry.Insert(spec.ID, nil); err != nil {
				return "", err
			}
			continue
		}

		ent, perr := buildEntity(world, spec)
		if perr != nil {
			log.Warn().Err(perr).Str("id", spec.ID).Msg("skipping invalid entity")
			continue
		}
		if err := registry.Insert(spec.ID, ent); err != nil {
			return "", err
		}
		if spec.Plane {
			if planeID != "" {
				log.Warn().
					Str("kept", planeID).
					Str("ignored", spec.ID).
					Msg("level declares more than one plane")
				continue
			}
			planeID = spec.ID
		}
	}
	return planeID, nil
}

func buildEntity(world *phys.World, spec EntitySpec) (*sim.Entity, error) {
	ph := spec.Physics

	var body phys.RigidBody
	switch ph.Body {
	case "dynamic":
		if ph.Mass <= 0 {
			return nil, fmt.Errorf("dynamic body needs positive mass, got %v", ph.Mass)
		}
		body = phys.NewDynamicBody(vec3(spec.Position), ph.Mass)
		body.CenterOfMass = vec3(ph.CenterOfMass)
		if inertia := vec3(ph.Inertia); inertia.Len() > 0 {
			body.Inertia = inertia
		}
		body.Linvel = vec3(ph.InitialVelocity)
	case "static":
		body = phys.NewFixedBody(vec3(spec.Position))
	default:
		return nil, fmt.Errorf("unknown body kind %q", ph.Body)
	}

	// Validate before inserting so a rejected entity leaves nothing behind
	// in the world.
	if ph.Collider != nil {
		switch ph.Collider.Type {
		case "cuboid", "halfspace":
		default:
			return nil, fmt.Errorf("unknown collider type %q", ph.Collider.Type)
		}
	}

	if spec.Rotation != nil {
		q := phys.Quat{
			W: spec.Rotation[0],
			V: phys.Vec3{spec.Rotation[1], spec.Rotation[2], spec.Rotation[3]},
		}
		body.Rotation = q.Normalize()
	}

	handle := world.InsertBody(body)
	ent := &sim.Entity{Body: handle}

	if ph.Collider != nil {
		var col phys.Collider
		if ph.Collider.Type == "cuboid" {
			col = phys.NewCuboid(vec3(ph.Collider.HalfExtents), handle)
		} else {
			col = phys.NewHalfSpace(vec3(ph.Collider.Normal), handle)
		}
		ent.Collider = world.InsertCollider(col)
		ent.HasCollider = true
	}

	return ent, nil
}

func vec3(v [3]float64) phys.Vec3 {
	return phys.Vec3{v[0], v[1], v[2]}
}
