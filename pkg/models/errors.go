package models

import "errors"

var (
	// ErrUnparsablePeriod : impossible d'extraire (année, mois) d'un jeton.
	ErrUnparsablePeriod = errors.New("période illisible")
	// ErrInvalidQuantity : quantité absente, non numérique ou négative.
	ErrInvalidQuantity = errors.New("quantité invalide")
	// ErrNoValidPeriods : aucun enregistrement exploitable dans le jeu de données.
	ErrNoValidPeriods   = errors.New("no valid periods found")
	ErrInvalidRange     = errors.New("intervalle de périodes invalide")
	ErrUnknownDimension = errors.New("dimension inconnue")
	ErrMissingColumns   = errors.New("colonnes obligatoires manquantes")
	// ErrSameDimension : une matrice croisée exige deux dimensions distinctes.
	ErrSameDimension = errors.New("dimensions identiques")
)
