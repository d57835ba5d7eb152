package server

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/SeamusWaldron/cubr/internal/cube"
	"github.com/SeamusWaldron/cubr/internal/game"
	"github.com/SeamusWaldron/cubr/internal/solver"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

type movesRequest struct {
	Moves string `json:"moves"`
}

type shuffleRequest struct {
	Count int `json:"count"`
}

type stateRequest struct {
	FaceString string `json:"face_string"`
	// Lenient pads short input and replaces bad characters with X, keeping
	// the centers fixed.
	Lenient bool `json:"lenient,omitempty"`
}

type saveStateRequest struct {
	Name       string `json:"name"`
	FaceString string `json:"face_string,omitempty"`
}

type faceJSON struct {
	Label    string     `json:"label"`
	Position [3]float64 `json:"position"`
}

func (s *Server) handleGetState(c *fiber.Ctx) error {
	return c.JSON(s.game.View())
}

func (s *Server) handleSetState(c *fiber.Ctx) error {
	var req stateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	fs := req.FaceString
	if req.Lenient {
		ed := cube.NewEditor()
		ed.SetData(strings.ToUpper(fs))
		fs = ed.String()
	}
	if err := s.game.SetFaceString(fs); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(s.game.View())
}

func (s *Server) handleFaces(c *fiber.Ctx) error {
	faces := s.game.Engine().ExportFaces()
	out := make([]faceJSON, len(faces))
	for i, f := range faces {
		out[i] = faceJSON{
			Label:    string(f.Label.Letter()),
			Position: [3]float64{f.Position.X, f.Position.Y, f.Position.Z},
		}
	}
	return c.JSON(out)
}

func (s *Server) handleMeshes(c *fiber.Ctx) error {
	return c.JSON(s.game.Engine().Meshes())
}

func (s *Server) handleCubelets(c *fiber.Ctx) error {
	return c.JSON(s.game.Engine().Descriptions())
}

func (s *Server) handleMoves(c *fiber.Ctx) error {
	var req movesRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	tokens := strings.Fields(req.Moves)
	queued := s.game.Move(tokens...)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"queued":  queued,
		"dropped": len(tokens) - queued,
	})
}

func (s *Server) handleShuffle(c *fiber.Ctx) error {
	var req shuffleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}
	if req.Count < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "count must not be negative")
	}
	moves := s.game.Shuffle(req.Count)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"queued": len(moves)})
}

func (s *Server) handleReset(c *fiber.Ctx) error {
	s.game.Reset()
	return c.JSON(s.game.View())
}

func (s *Server) handleSolve(c *fiber.Ctx) error {
	moves, err := s.game.Solve(c.UserContext())
	switch {
	case err == nil:
	case errors.Is(err, solver.ErrUnsolvable):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, types.ErrInvalidFaceString):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrNoSolver):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	default:
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	tokens := make([]string, len(moves))
	for i, m := range moves {
		tokens[i] = m.Notation()
	}
	return c.JSON(fiber.Map{"solution": tokens})
}

func (s *Server) handleNext(c *fiber.Ctx) error {
	if !s.game.StepForward() {
		return fiber.NewError(fiber.StatusConflict, "at end of solution")
	}
	return c.JSON(s.game.View())
}

func (s *Server) handlePrev(c *fiber.Ctx) error {
	if !s.game.StepBack() {
		return fiber.NewError(fiber.StatusConflict, "at start of solution")
	}
	return c.JSON(s.game.View())
}

func (s *Server) handlePause(c *fiber.Ctx) error {
	paused := s.game.Engine().TogglePause()
	return c.JSON(fiber.Map{"paused": paused})
}

func (s *Server) handleSpeed(c *fiber.Ctx) error {
	switch c.Params("dir") {
	case "up":
		s.game.Engine().SpeedUp()
	case "down":
		s.game.Engine().SlowDown()
	default:
		return fiber.ErrNotFound
	}
	return c.JSON(fiber.Map{"speed": s.game.Engine().Settings().Speed})
}

func (s *Server) handleListStates(c *fiber.Ctx) error {
	list, err := s.states.List()
	if err != nil {
		s.logger.Errorf("failed to list saved states: %v", err)
		return err
	}
	return c.JSON(list)
}

// handleSaveState stores the given face string, or the current cube when
// none is given, under a name.
func (s *Server) handleSaveState(c *fiber.Ctx) error {
	var req saveStateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	fs := req.FaceString
	if fs == "" {
		fs = s.game.Engine().FaceString()
	}
	if err := types.ValidateFaceString(fs, true); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var sessionID string
	if rec := s.game.Recorder(); rec != nil {
		sessionID = rec.SessionID()
	}
	if _, err := s.states.Save(req.Name, fs, sessionID); err != nil {
		s.logger.Errorf("failed to save state %q: %v", req.Name, err)
		return err
	}
	state, err := s.states.Get(req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(state)
}

func (s *Server) handleGetSavedState(c *fiber.Ctx) error {
	state, err := s.states.Get(c.Params("name"))
	if err != nil {
		return err
	}
	if state == nil {
		return fiber.ErrNotFound
	}
	return c.JSON(state)
}

func (s *Server) handleLoadState(c *fiber.Ctx) error {
	state, err := s.states.Get(c.Params("name"))
	if err != nil {
		return err
	}
	if state == nil {
		return fiber.ErrNotFound
	}
	if err := s.game.SetFaceString(state.FaceString); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(s.game.View())
}

func (s *Server) handleDeleteState(c *fiber.Ctx) error {
	if err := s.states.Delete(c.Params("name")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
