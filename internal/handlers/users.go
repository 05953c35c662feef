package handlers

import (
	"net/http"

	"fieldcrm/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const usersPath = "/users"

type userForm struct {
	StaffName   string `form:"staffName" validate:"required"`
	Designation string `form:"designation" validate:"required"`
	EmpID       string `form:"empId" validate:"required"`
	JoiningDate string `form:"joiningDate" validate:"omitempty,datetime=2006-01-02"`
	Mobile      string `form:"mobile" validate:"required,number,len=10"`
	Role        string `form:"role" validate:"required,oneof=Admin Agent"`
	Salary      string `form:"salary" validate:"required,positive_amount"`
	LoginID     string `form:"userId" validate:"required,min=4"`
	Password    string `form:"password" validate:"omitempty,min=6,max=72"`
}

func (f *userForm) normalize() {
	trimAll(&f.StaffName, &f.Designation, &f.EmpID, &f.JoiningDate, &f.Mobile, &f.Role, &f.Salary, &f.LoginID)
}

// validate checks the form. A password is only mandatory for new users.
func (f userForm) validate(creating bool) fieldErrors {
	errs := check(f)
	if creating && f.Password == "" {
		errs = errs.add("password", "required")
	}
	return errs
}

func (f userForm) user(id string) models.User {
	salary, _ := decimal.NewFromString(f.Salary)
	return models.User{
		ID:          id,
		StaffName:   f.StaffName,
		Designation: f.Designation,
		EmpID:       f.EmpID,
		JoiningDate: f.JoiningDate,
		Mobile:      f.Mobile,
		Role:        models.UserRole(f.Role),
		Salary:      salary,
		LoginID:     f.LoginID,
	}
}

func formFromUser(u models.User) userForm {
	return userForm{
		StaffName:   u.StaffName,
		Designation: u.Designation,
		EmpID:       u.EmpID,
		JoiningDate: u.JoiningDate,
		Mobile:      u.Mobile,
		Role:        string(u.Role),
		Salary:      u.Salary.String(),
		LoginID:     u.LoginID,
	}
}

func (h *Handler) ListUsers(c *gin.Context) {
	render(c, http.StatusOK, "users_list.html", gin.H{"users": h.store.Users()})
}

func (h *Handler) ShowNewUser(c *gin.Context) {
	render(c, http.StatusOK, "users_form.html", gin.H{
		"form":   userForm{Role: string(models.RoleAgent), JoiningDate: h.store.Today()},
		"errors": fieldErrors{},
		"action": usersPath + "/new",
	})
}

func (h *Handler) CreateUser(c *gin.Context) {
	var form userForm
	_ = c.ShouldBind(&form)
	form.normalize()

	if errs := form.validate(true); len(errs) > 0 {
		render(c, http.StatusBadRequest, "users_form.html", gin.H{
			"form":   form,
			"errors": errs,
			"action": usersPath + "/new",
		})
		return
	}

	user, err := h.store.AddUser(c.Request.Context(), form.user(""), form.Password)
	if err != nil {
		h.log.Error(c.Request.Context(), "users.create_failed", err)
		render(c, http.StatusInternalServerError, "users_form.html", gin.H{
			"form":   form,
			"errors": fieldErrors{"form": "Could not save the user"},
			"action": usersPath + "/new",
		})
		return
	}

	flash(c, "User "+user.LoginID+" created.")
	c.Redirect(http.StatusFound, usersPath)
}

func (h *Handler) ShowEditUser(c *gin.Context) {
	user, ok := h.store.User(c.Param("id"))
	if !ok {
		c.Redirect(http.StatusFound, usersPath)
		return
	}
	render(c, http.StatusOK, "users_form.html", gin.H{
		"form":   formFromUser(user),
		"errors": fieldErrors{},
		"action": usersPath + "/" + user.ID + "/edit",
		"edit":   true,
	})
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.store.User(id); !ok {
		c.Redirect(http.StatusFound, usersPath)
		return
	}

	var form userForm
	_ = c.ShouldBind(&form)
	form.normalize()

	action := usersPath + "/" + id + "/edit"
	if errs := form.validate(false); len(errs) > 0 {
		render(c, http.StatusBadRequest, "users_form.html", gin.H{
			"form":   form,
			"errors": errs,
			"action": action,
			"edit":   true,
		})
		return
	}

	found, err := h.store.UpdateUser(c.Request.Context(), form.user(id), form.Password)
	if err != nil {
		h.log.Error(c.Request.Context(), "users.update_failed", err)
		render(c, http.StatusInternalServerError, "users_form.html", gin.H{
			"form":   form,
			"errors": fieldErrors{"form": "Could not save the user"},
			"action": action,
			"edit":   true,
		})
		return
	}
	if found {
		flash(c, "User "+form.LoginID+" updated.")
	}
	c.Redirect(http.StatusFound, usersPath)
}

// ShowDeleteUser asks for confirmation before DeleteUser runs.
func (h *Handler) ShowDeleteUser(c *gin.Context) {
	user, ok := h.store.User(c.Param("id"))
	if !ok {
		c.Redirect(http.StatusFound, usersPath)
		return
	}
	render(c, http.StatusOK, "users_delete.html", gin.H{"user": user})
}

// DeleteUser only deletes when the confirmation field is present.
func (h *Handler) DeleteUser(c *gin.Context) {
	if c.PostForm("confirm") != "yes" {
		c.Redirect(http.StatusFound, usersPath)
		return
	}
	if h.store.DeleteUser(c.Request.Context(), c.Param("id")) {
		flash(c, "User deleted.")
	}
	c.Redirect(http.StatusFound, usersPath)
}
