package models

type Player struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	TeamID int    `json:"teamID"`
}

type PlayerUpdate struct {
	Name string `json:"name"`
}
