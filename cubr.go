// Package cubr provides an animated 3x3x3 Rubik's cube: a 3D model of the
// 26 visible cubelets, a move engine that eases each turn over a number of
// frames, solver playback and the 54 letter face string used by external
// solvers.
//
// # Quick Start
//
// Turn the cube and let it animate:
//
//	cube := cubr.New()
//	cube.OnMove(func(m cubr.Move) {
//	    fmt.Println("Move:", m.Notation())
//	})
//	cube.OnPhaseChange(func(p cubr.Phase) {
//	    fmt.Println("Phase completed:", p.DisplayName())
//	})
//
//	cube.Apply(cubr.R, cubr.U, cubr.RPrime, cubr.UPrime)
//	cube.ApplyNotation("F B2 L' D")
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	go cube.Run(ctx) // one tick every 20ms
//
// Headless code can skip the animation and tick until the queue drains:
//
//	cube.Settle()
//	fmt.Println("Solved:", cube.IsSolved())
//	fmt.Println("Phase:", cube.Phase())
//
// # Solving
//
// With a solver configured, Solve loads a solution that StepForward and
// StepBack play one turn at a time:
//
//	cube := cubr.New(cubr.WithSolverURL("http://localhost:8080/solve", 0))
//	cube.Shuffle(25)
//	cube.Settle()
//	if _, err := cube.Solve(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	for cube.StepForward() {
//	    cube.Settle()
//	}
//
// # Face Strings
//
// Face strings list 54 stickers, 9 per face, faces in order U R F D L B.
// SetFaceString also accepts X for a sticker whose color is unknown.
package cubr
