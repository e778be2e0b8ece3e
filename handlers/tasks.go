package handlers

import (
	"errors"
	"log"
	"net/http"

	"taskmanager/models"
	"taskmanager/store"
	"taskmanager/utils"

	"github.com/gorilla/mux"
)

func (a *App) GetTasks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	tasks, err := a.store.ListTasks(ctx)
	if err != nil {
		serverError(w, "Error retrieving tasks", err)
		return
	}
	a.render(w, r, http.StatusOK, "tasks.html", models.PageData{Tasks: tasks})
}

// AddTaskForm displays the add task form with categories sorted by name.
func (a *App) AddTaskForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireUser(w, r); !ok {
		return
	}
	a.renderTaskForm(w, r, http.StatusOK, "add_task.html", nil, "")
}

func (a *App) AddTask(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	form, err := utils.ParseTaskForm(r)
	if err != nil {
		task := form.Task(user)
		a.renderTaskForm(w, r, http.StatusBadRequest, "add_task.html", &task, err.Error())
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	id, err := a.store.InsertTask(ctx, form.Task(user))
	if err != nil {
		serverError(w, "Error inserting task", err)
		return
	}
	log.Printf("task %s added by %s", id, user)
	a.redirect(w, r, "/get_tasks", "task successfully added")
}

func (a *App) EditTaskForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireUser(w, r); !ok {
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	task, err := a.store.FindTask(ctx, mux.Vars(r)["id"])
	if err != nil {
		taskError(w, "Error finding task", err)
		return
	}
	a.renderTaskForm(w, r, http.StatusOK, "edit_task.html", task, "")
}

// EditTask overwrites every field of the task. created_by moves to the
// editing user.
func (a *App) EditTask(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	id, err := store.ParseID(mux.Vars(r)["id"])
	if err != nil {
		taskError(w, "Error parsing task id", err)
		return
	}

	form, err := utils.ParseTaskForm(r)
	if err != nil {
		task := form.Task(user)
		task.ID = id
		a.renderTaskForm(w, r, http.StatusBadRequest, "edit_task.html", &task, err.Error())
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	if err := a.store.UpdateTask(ctx, id, form.Task(user)); err != nil {
		taskError(w, "Error updating task", err)
		return
	}
	log.Printf("task %s updated by %s", id, user)
	a.redirect(w, r, "/get_tasks", "task successfully updated")
}

func (a *App) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	id := mux.Vars(r)["id"]
	if err := a.store.DeleteTask(ctx, id); err != nil {
		taskError(w, "Error deleting task", err)
		return
	}
	log.Printf("task %s deleted by %s", id, user)
	a.redirect(w, r, "/get_tasks", "task successfully deleted")
}

func (a *App) renderTaskForm(w http.ResponseWriter, r *http.Request, status int, page string, task *models.Task, msg string) {
	ctx, cancel := storeContext(r)
	defer cancel()

	categories, err := a.store.ListCategories(ctx)
	if err != nil {
		serverError(w, "Error retrieving categories", err)
		return
	}
	a.render(w, r, status, page, models.PageData{
		Task:       task,
		Categories: categories,
		Error:      msg,
	})
}

// taskError maps unknown or malformed ids to 404 and anything else to 500.
func taskError(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}
	serverError(w, msg, err)
}
