package exercises

// Exercise is catalog reference data. Insert-only: many workout exercises may point to one Exercise.
type Exercise struct {
	ID                   int     `json:"id"`
	Name                 string  `json:"name"`
	Equipment            string  `json:"equipment"`
	PrimaryMuscleGroup   string  `json:"primary_muscle_group"`
	SecondaryMuscleGroup *string `json:"secondary_muscle_group,omitempty"`
	ImageURL             *string `json:"image_url,omitempty"`
}

func (e Exercise) Validate() error {
	switch {
	case e.Name == "":
		return errMissingField("name")
	case e.Equipment == "":
		return errMissingField("equipment")
	case e.PrimaryMuscleGroup == "":
		return errMissingField("primary_muscle_group")
	}
	return nil
}

type errMissingField string

func (e errMissingField) Error() string {
	return "missing required field: " + string(e)
}
