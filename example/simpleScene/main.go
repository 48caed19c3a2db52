package main

import (
	"fmt"

	"github.com/TurboCartPig/vkengine"
	"github.com/go-gl/mathgl/mgl64"
)

// A small solar-system style scene: a sun at the origin, a planet parented
// under it, and a moon parented under the planet. Spinning the sun moves the
// whole subtree through the transform sync pass.
func main() {
	world := vkengine.NewWorld()
	world.Workers = 4

	sun := world.CreateObject(vkengine.NewTransform())

	planet := world.CreateObject(vkengine.TransformAt(mgl64.Vec3{10, 0, 0}))
	if err := world.SetParent(planet, sun); err != nil {
		panic(err)
	}

	moon := world.CreateObject(vkengine.TransformAt(mgl64.Vec3{2, 0, 0}))
	if err := world.SetParent(moon, planet); err != nil {
		panic(err)
	}

	const dt = 1.0 / 60.0
	const maxSteps = 120

	for step := 0; step < maxSteps; step++ {
		// spin the sun; the planet and moon follow through the hierarchy
		if tr, ok := world.Transform(sun); ok {
			tr.RotateGlobal(mgl64.QuatRotate(0.5*dt, mgl64.Vec3{0, 1, 0}))
			world.SetTransform(sun, tr)
		}

		// the moon also circles its planet
		if tr, ok := world.Transform(planet); ok {
			tr.RotateLocal(mgl64.QuatRotate(2.0*dt, mgl64.Vec3{0, 1, 0}))
			world.SetTransform(planet, tr)
		}

		world.Step()

		if step%30 == 0 {
			fmt.Printf("--- step %d ---\n", step)
			sunMat, _ := world.WorldMatrix(sun)
			planetMat, _ := world.WorldMatrix(planet)
			moonMat, _ := world.WorldMatrix(moon)
			fmt.Printf("  sun:    %v\n", sunMat.Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3())
			fmt.Printf("  planet: %v\n", planetMat.Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3())
			fmt.Printf("  moon:   %v\n", moonMat.Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3())
		}
	}

	fmt.Println("done")
}
