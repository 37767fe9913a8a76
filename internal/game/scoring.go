package game

import "github.com/pranavnigade123/drawzzl-backend/internal/models"

// GuessPoints computes the award for a correct guess with timeLeft
// seconds remaining. Points decay in 5-second plateaus from MaxPoints
// down to MinPoints.
func GuessPoints(timeLeft int) int {
	if timeLeft < 0 {
		timeLeft = 0
	}
	plateau := (timeLeft / 5) * 5
	pts := models.MaxPoints * plateau / models.TurnSeconds
	if pts < models.MinPoints {
		pts = models.MinPoints
	}
	return pts
}

// DrawerBonus computes the drawer's end-of-turn award.
func DrawerBonus(correctGuessers int) int {
	return models.DrawerBonusPerGuesser * correctGuessers
}
